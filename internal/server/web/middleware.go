package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const sessionExpiredMessage = "Your session has expired"

func (s *Server) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	s.logger.Info(c.Request.Context(), "request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
		"user_id", auth.UserIDFromContext(c.Request.Context()),
	)
}

// sessionMiddleware resolves the session cookie to a user once per request.
// An expired session is dropped and the client is sent to the home page with
// a notice. Any other unusable token is dropped silently.
func (s *Server) sessionMiddleware(c *gin.Context) {
	token, err := c.Cookie(common.SessionCookieName)
	if err != nil || token == "" {
		c.Next()
		return
	}

	ctx := c.Request.Context()
	user, err := s.users.Authenticate(ctx, token)
	switch {
	case err == nil:
		c.Request = c.Request.WithContext(auth.WithUser(ctx, user))
	case errors.Is(err, common.ErrSessionExpired):
		s.clearSession(c)
		s.setFlash(c, flashInfo, sessionExpiredMessage)
		c.Redirect(http.StatusSeeOther, "/")
		c.Abort()
		return
	case errors.Is(err, common.ErrInvalidToken):
		s.clearSession(c)
	default:
		s.internalError(c, err)
		c.Abort()
		return
	}

	c.Next()
}

// requireUser sends anonymous requests to the login page.
func (s *Server) requireUser(c *gin.Context) {
	if auth.UserFromContext(c.Request.Context()) == nil {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.Next()
}

// setSession stores token in a browser-session cookie. Expiry is decided on
// the server so an outdated cookie can still report the expired session.
func (s *Server) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, token, 0, "/", "", s.opts.SecureCookies, true)
}

func (s *Server) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", s.opts.SecureCookies, true)
}
