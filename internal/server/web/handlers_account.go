package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/server/auth"
	"github.com/dmitrijs2005/todolists/internal/server/forms"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const loginFailedMessage = "Username or password is incorrect."

func (s *Server) registerForm(c *gin.Context) {
	s.render(c, http.StatusOK, "register.html", gin.H{"Form": forms.RegisterInput{}})
}

func (s *Server) register(c *gin.Context) {
	var in forms.RegisterInput
	if err := c.ShouldBindWith(&in, binding.Form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	if _, err := s.users.Register(c.Request.Context(), in); err != nil {
		in.Password, in.PasswordRepeat = "", ""
		s.fail(c, err, "register.html", gin.H{"Form": in}, "")
		return
	}

	s.setFlash(c, flashInfo, "Your account was created. Please log in.")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) loginForm(c *gin.Context) {
	s.render(c, http.StatusOK, "login.html", gin.H{"Form": forms.LoginInput{}})
}

func (s *Server) login(c *gin.Context) {
	var in forms.LoginInput
	if err := c.ShouldBindWith(&in, binding.Form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	token, user, err := s.users.Login(c.Request.Context(), in)
	if err != nil {
		in.Password = ""
		if errors.Is(err, common.ErrorUnauthorized) {
			err = forms.NewFormError(loginFailedMessage)
		}
		s.fail(c, err, "login.html", gin.H{"Form": in}, "")
		return
	}

	s.logger.Info(c.Request.Context(), "user logged in", "user_id", user.ID)
	s.setSession(c, token)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	ctx := c.Request.Context()
	if err := s.users.Logout(ctx, auth.UserIDFromContext(ctx)); err != nil {
		s.internalError(c, err)
		return
	}
	s.clearSession(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) account(c *gin.Context) {
	s.render(c, http.StatusOK, "account.html", nil)
}

func (s *Server) passwordForm(c *gin.Context) {
	s.render(c, http.StatusOK, "password.html", gin.H{"Form": forms.PasswordChangeInput{}})
}

func (s *Server) changePassword(c *gin.Context) {
	var in forms.PasswordChangeInput
	if err := c.ShouldBindWith(&in, binding.Form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	user := auth.UserFromContext(c.Request.Context())
	if err := s.users.ChangePassword(c.Request.Context(), user, in); err != nil {
		in.Password, in.PasswordRepeat = "", ""
		s.fail(c, err, "password.html", gin.H{"Form": in}, "")
		return
	}

	s.clearSession(c)
	s.setFlash(c, flashInfo, "Your password was changed. Please log in again.")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) deleteAccount(c *gin.Context) {
	ctx := c.Request.Context()
	user := auth.UserFromContext(ctx)
	if err := s.users.Delete(ctx, user.ID); err != nil {
		s.internalError(c, err)
		return
	}

	s.logger.Info(ctx, "account deleted", "user_id", user.ID)
	s.clearSession(c)
	s.setFlash(c, flashInfo, "Your account was deleted.")
	c.Redirect(http.StatusSeeOther, "/")
}
