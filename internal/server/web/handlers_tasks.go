package web

import (
	"net/http"

	"github.com/dmitrijs2005/todolists/internal/server/auth"
	"github.com/dmitrijs2005/todolists/internal/server/forms"
	"github.com/dmitrijs2005/todolists/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

const taskNotOwnedMessage = "This task does not belong to you."

func taskFormData(heading, action string, form any, editing bool) gin.H {
	return gin.H{
		"Heading":    heading,
		"Action":     action,
		"Form":       form,
		"Editing":    editing,
		"Priorities": models.Priorities,
		"Statuses":   models.Statuses,
	}
}

// listParam reads the owning list from the query string.
func listParam(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Query("list"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func (s *Server) newTaskForm(c *gin.Context) {
	listID, ok := listParam(c)
	if !ok {
		s.notFound(c)
		return
	}

	ctx := c.Request.Context()
	if _, err := s.lists.Get(ctx, auth.UserIDFromContext(ctx), listID); err != nil {
		s.fail(c, err, "task_form.html", gin.H{"Heading": "New task"}, listNotOwnedMessage)
		return
	}
	s.render(c, http.StatusOK, "task_form.html",
		taskFormData("New task", "/tasks/new?list="+listID, forms.TaskInput{Priority: string(models.PriorityMedium)}, false))
}

func (s *Server) createTask(c *gin.Context) {
	listID, ok := listParam(c)
	if !ok {
		s.notFound(c)
		return
	}
	var in forms.TaskInput
	if err := c.ShouldBindWith(&in, binding.Form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()
	t, err := s.tasks.Create(ctx, auth.UserIDFromContext(ctx), listID, in)
	if err != nil {
		s.fail(c, err, "task_form.html", taskFormData("New task", "/tasks/new?list="+listID, in, false), listNotOwnedMessage)
		return
	}

	s.logger.Info(ctx, "task created", "task_id", t.ID, "list_id", listID)
	c.Redirect(http.StatusSeeOther, "/lists/"+listID)
}

func (s *Server) editTaskForm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		s.notFound(c)
		return
	}

	ctx := c.Request.Context()
	t, err := s.tasks.Get(ctx, auth.UserIDFromContext(ctx), id)
	if err != nil {
		s.fail(c, err, "task_form.html", gin.H{"Heading": "Edit task"}, taskNotOwnedMessage)
		return
	}

	form := forms.TaskUpdateInput{
		TaskInput: forms.TaskInput{
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate.Format(forms.DateLayout),
			Priority:    string(t.Priority),
		},
		Status: string(t.Status),
	}
	data := taskFormData("Edit task", "/tasks/"+t.ID+"/edit", form, true)
	data["ListID"] = t.ListID
	s.render(c, http.StatusOK, "task_form.html", data)
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		s.notFound(c)
		return
	}
	var in forms.TaskUpdateInput
	if err := c.ShouldBindWith(&in, binding.Form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()
	userID := auth.UserIDFromContext(ctx)
	t, err := s.tasks.Update(ctx, userID, id, in)
	if err != nil {
		data := taskFormData("Edit task", "/tasks/"+id+"/edit", in, true)
		if _, ok := forms.AsFieldErrors(err); ok {
			if cur, gerr := s.tasks.Get(ctx, userID, id); gerr == nil {
				data["ListID"] = cur.ListID
			}
		}
		s.fail(c, err, "task_form.html", data, taskNotOwnedMessage)
		return
	}
	c.Redirect(http.StatusSeeOther, "/lists/"+t.ListID)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		s.notFound(c)
		return
	}

	ctx := c.Request.Context()
	t, err := s.tasks.Delete(ctx, auth.UserIDFromContext(ctx), id)
	if err != nil {
		s.fail(c, err, "task_form.html", gin.H{"Heading": "Delete task"}, taskNotOwnedMessage)
		return
	}

	s.setFlash(c, flashInfo, deletedMessage)
	c.Redirect(http.StatusSeeOther, "/lists/"+t.ListID)
}
