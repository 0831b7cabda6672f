package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/server/auth"
	"github.com/dmitrijs2005/todolists/internal/server/forms"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

const (
	listNotOwnedMessage = "This list does not belong to you."
	deletedMessage      = "The item was deleted successfully."
)

// pathID returns the canonical form of the :id parameter. Anything that is
// not a UUID cannot name a row.
func pathID(c *gin.Context, name string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func (s *Server) index(c *gin.Context) {
	ctx := c.Request.Context()
	user := auth.UserFromContext(ctx)
	if user == nil {
		s.render(c, http.StatusOK, "index.html", nil)
		return
	}

	lists, err := s.lists.ListForOwner(ctx, user.ID)
	if err != nil {
		s.internalError(c, err)
		return
	}
	s.render(c, http.StatusOK, "index.html", gin.H{"Lists": lists})
}

func (s *Server) newListForm(c *gin.Context) {
	s.render(c, http.StatusOK, "list_form.html", gin.H{
		"Heading": "New list",
		"Action":  "/lists/new",
		"Form":    forms.ListInput{},
	})
}

func (s *Server) createList(c *gin.Context) {
	var in forms.ListInput
	if err := c.ShouldBindWith(&in, binding.Form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()
	l, err := s.lists.Create(ctx, auth.UserIDFromContext(ctx), in)
	if err != nil {
		s.fail(c, err, "list_form.html", gin.H{"Heading": "New list", "Action": "/lists/new", "Form": in}, listNotOwnedMessage)
		return
	}

	s.logger.Info(ctx, "list created", "list_id", l.ID)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) showList(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		s.notFound(c)
		return
	}

	ctx := c.Request.Context()
	list, tasks, err := s.tasks.ListForList(ctx, auth.UserIDFromContext(ctx), id)
	if err != nil {
		s.fail(c, err, "list.html", nil, listNotOwnedMessage)
		return
	}
	s.render(c, http.StatusOK, "list.html", gin.H{
		"List":          list,
		"Tasks":         tasks,
		"ExportEnabled": s.exports != nil && s.exports.Enabled(),
	})
}

func (s *Server) editListForm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		s.notFound(c)
		return
	}

	ctx := c.Request.Context()
	l, err := s.lists.Get(ctx, auth.UserIDFromContext(ctx), id)
	if err != nil {
		s.fail(c, err, "list_form.html", gin.H{"Heading": "Edit list"}, listNotOwnedMessage)
		return
	}
	s.render(c, http.StatusOK, "list_form.html", gin.H{
		"Heading": "Edit list",
		"Action":  "/lists/" + l.ID + "/edit",
		"Form":    forms.ListInput{Title: l.Title, Description: l.Description},
	})
}

func (s *Server) updateList(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		s.notFound(c)
		return
	}
	var in forms.ListInput
	if err := c.ShouldBindWith(&in, binding.Form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()
	if _, err := s.lists.Update(ctx, auth.UserIDFromContext(ctx), id, in); err != nil {
		s.fail(c, err, "list_form.html", gin.H{
			"Heading": "Edit list",
			"Action":  "/lists/" + id + "/edit",
			"Form":    in,
		}, listNotOwnedMessage)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) deleteList(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		s.notFound(c)
		return
	}

	ctx := c.Request.Context()
	if err := s.lists.Delete(ctx, auth.UserIDFromContext(ctx), id); err != nil {
		s.fail(c, err, "list.html", nil, listNotOwnedMessage)
		return
	}

	s.logger.Info(ctx, "list deleted", "list_id", id)
	s.setFlash(c, flashInfo, deletedMessage)
	c.Redirect(http.StatusSeeOther, "/")
}

// exportList sends the browser to a short-lived download link for the
// list snapshot.
func (s *Server) exportList(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		s.notFound(c)
		return
	}
	if s.exports == nil {
		s.setFlash(c, flashError, "Export is not available.")
		c.Redirect(http.StatusSeeOther, "/lists/"+id)
		return
	}

	ctx := c.Request.Context()
	url, err := s.exports.ExportList(ctx, auth.UserIDFromContext(ctx), id)
	if err != nil {
		if errors.Is(err, common.ErrExportDisabled) {
			s.setFlash(c, flashError, "Export is not available.")
			c.Redirect(http.StatusSeeOther, "/lists/"+id)
			return
		}
		s.fail(c, err, "list.html", nil, listNotOwnedMessage)
		return
	}
	c.Redirect(http.StatusSeeOther, url)
}
