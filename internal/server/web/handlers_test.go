package web

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/server/forms"
	"github.com/dmitrijs2005/todolists/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRoot_RedirectsToNewList(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/", aliceToken, url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/lists/new", rec.Header().Get("Location"))
}

func TestCreateList(t *testing.T) {
	h := newHarness(t)
	var got forms.ListInput
	h.lists.create = func(userID string, in forms.ListInput) (*models.List, error) {
		assert.Equal(t, alice.ID, userID)
		got = in
		return groceries(), nil
	}

	rec := h.do(http.MethodPost, "/lists/new", aliceToken, url.Values{"title": {"Groceries"}, "description": {"weekly shop"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, forms.ListInput{Title: "Groceries", Description: "weekly shop"}, got)
}

func TestCreateList_TitleConflictShowsFormError(t *testing.T) {
	h := newHarness(t)
	h.lists.create = func(string, forms.ListInput) (*models.List, error) {
		return nil, forms.NewFormError("A list with this title already exists.")
	}

	rec := h.do(http.MethodPost, "/lists/new", aliceToken, url.Values{"title": {"Groceries"}, "description": {"x"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A list with this title already exists.")
	assert.Contains(t, rec.Body.String(), `value="Groceries"`)
}

func TestShowList(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/lists/"+listID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Groceries")
	assert.Contains(t, body, "Milk")
	assert.Contains(t, body, "2024-05-02")
	assert.Contains(t, body, "/lists/"+listID+"/export")
}

func TestShowList_ExportHiddenWhenDisabled(t *testing.T) {
	h := newHarness(t)
	h.exports.enabled = false

	rec := h.do(http.MethodGet, "/lists/"+listID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "/export")
}

func TestShowList_NotOwnedRendersErrorOnly(t *testing.T) {
	h := newHarness(t)
	h.tasks.forList = func(string, string) (*models.List, []*models.Task, error) {
		return nil, nil, common.ErrNotOwned
	}

	rec := h.do(http.MethodGet, "/lists/"+listID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), listNotOwnedMessage)
	assert.NotContains(t, rec.Body.String(), "Milk")
	assert.NotContains(t, rec.Body.String(), "Add task")
}

func TestShowList_MissingAndMalformedAre404(t *testing.T) {
	h := newHarness(t)
	h.tasks.forList = func(string, string) (*models.List, []*models.Task, error) {
		return nil, nil, common.ErrorNotFound
	}

	rec := h.do(http.MethodGet, "/lists/"+listID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodGet, "/lists/not-a-uuid", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShowList_ServiceFailureIs500(t *testing.T) {
	h := newHarness(t)
	h.tasks.forList = func(string, string) (*models.List, []*models.Task, error) {
		return nil, nil, errBoom
	}

	rec := h.do(http.MethodGet, "/lists/"+listID, aliceToken, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEditListForm_Prefilled(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/lists/"+listID+"/edit", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Groceries"`)
	assert.Contains(t, rec.Body.String(), "weekly shop")
}

func TestEditListForm_NotOwned(t *testing.T) {
	h := newHarness(t)
	h.lists.get = func(string, string) (*models.List, error) { return nil, common.ErrNotOwned }

	rec := h.do(http.MethodGet, "/lists/"+listID+"/edit", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), listNotOwnedMessage)
	assert.NotContains(t, rec.Body.String(), "<form method=\"post\" action=\"/lists/")
}

func TestUpdateList(t *testing.T) {
	h := newHarness(t)
	h.lists.update = func(userID, id string, in forms.ListInput) (*models.List, error) {
		assert.Equal(t, listID, id)
		l := groceries()
		l.Title = in.Title
		return l, nil
	}

	rec := h.do(http.MethodPost, "/lists/"+listID+"/edit", aliceToken, url.Values{"title": {"Food"}, "description": {"d"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestDeleteList(t *testing.T) {
	h := newHarness(t)
	var deleted string
	h.lists.del = func(_, id string) error {
		deleted = id
		return nil
	}

	rec := h.do(http.MethodPost, "/lists/"+listID+"/delete", aliceToken, url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, listID, deleted)
	assert.NotNil(t, cookie(rec, common.FlashCookieName))
}

func TestExportList(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/lists/"+listID+"/export", aliceToken, url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, h.exports.url, rec.Header().Get("Location"))

	h.exports.err = common.ErrExportDisabled
	rec = h.do(http.MethodPost, "/lists/"+listID+"/export", aliceToken, url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/lists/"+listID, rec.Header().Get("Location"))

	h.exports.err = common.ErrNotOwned
	rec = h.do(http.MethodPost, "/lists/"+listID+"/export", aliceToken, url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), listNotOwnedMessage)
}

func TestNewTaskForm(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/tasks/new?list="+listID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="medium" selected`)
	assert.NotContains(t, body, `name="status"`)

	rec = h.do(http.MethodGet, "/tasks/new", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewTaskForm_ListNotOwned(t *testing.T) {
	h := newHarness(t)
	h.lists.get = func(string, string) (*models.List, error) { return nil, common.ErrNotOwned }

	rec := h.do(http.MethodGet, "/tasks/new?list="+listID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), listNotOwnedMessage)
	assert.NotContains(t, rec.Body.String(), `name="title"`)
}

func TestCreateTask(t *testing.T) {
	h := newHarness(t)
	var got forms.TaskInput
	h.tasks.create = func(userID, lid string, in forms.TaskInput) (*models.Task, error) {
		assert.Equal(t, listID, lid)
		got = in
		return milk(), nil
	}

	rec := h.do(http.MethodPost, "/tasks/new?list="+listID, aliceToken, url.Values{
		"title": {"Milk"}, "description": {"2 litres"}, "due_date": {"2024-05-02"}, "priority": {"high"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/lists/"+listID, rec.Header().Get("Location"))
	assert.Equal(t, forms.TaskInput{Title: "Milk", Description: "2 litres", DueDate: "2024-05-02", Priority: "high"}, got)
}

func TestCreateTask_ValidationRerender(t *testing.T) {
	h := newHarness(t)
	h.tasks.create = func(string, string, forms.TaskInput) (*models.Task, error) {
		fe := forms.FieldErrors{}
		fe.Add("due_date", "Enter a valid due date.")
		return nil, fe
	}

	rec := h.do(http.MethodPost, "/tasks/new?list="+listID, aliceToken, url.Values{
		"title": {"Milk"}, "description": {"d"}, "due_date": {"2000-01-01"}, "priority": {"low"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid due date.")
	assert.Contains(t, rec.Body.String(), `value="low" selected`)
}

func TestEditTaskForm(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/tasks/"+taskID+"/edit", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Milk"`)
	assert.Contains(t, body, `value="2024-05-02"`)
	assert.Contains(t, body, `value="pending" selected`)
	assert.Contains(t, body, "/lists/"+listID)
}

func TestEditTaskForm_NotOwned(t *testing.T) {
	h := newHarness(t)
	h.tasks.get = func(string, string) (*models.Task, error) { return nil, common.ErrNotOwned }

	rec := h.do(http.MethodGet, "/tasks/"+taskID+"/edit", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), taskNotOwnedMessage)
	assert.NotContains(t, rec.Body.String(), "Milk")
}

func TestUpdateTask_BindsEmbeddedFields(t *testing.T) {
	h := newHarness(t)
	var got forms.TaskUpdateInput
	h.tasks.update = func(_, id string, in forms.TaskUpdateInput) (*models.Task, error) {
		assert.Equal(t, taskID, id)
		got = in
		return milk(), nil
	}

	rec := h.do(http.MethodPost, "/tasks/"+taskID+"/edit", aliceToken, url.Values{
		"title": {"Milk"}, "description": {"2 litres"}, "due_date": {"2024-05-02"},
		"priority": {"high"}, "status": {"done"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/lists/"+listID, rec.Header().Get("Location"))
	assert.Equal(t, "Milk", got.Title)
	assert.Equal(t, "done", got.Status)
}

func TestUpdateTask_ValidationKeepsBackLink(t *testing.T) {
	h := newHarness(t)
	h.tasks.update = func(string, string, forms.TaskUpdateInput) (*models.Task, error) {
		fe := forms.FieldErrors{}
		fe.Add("title", "This field is required.")
		return nil, fe
	}
	h.tasks.get = func(userID, id string) (*models.Task, error) {
		assert.Equal(t, alice.ID, userID)
		return milk(), nil
	}

	rec := h.do(http.MethodPost, "/tasks/"+taskID+"/edit", aliceToken, url.Values{
		"title": {""}, "due_date": {"2024-05-02"}, "priority": {"high"}, "status": {"done"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This field is required.")
	assert.Contains(t, rec.Body.String(), `href="/lists/`+listID+`"`)
}

func TestDeleteTask(t *testing.T) {
	h := newHarness(t)
	h.tasks.del = func(string, string) (*models.Task, error) { return milk(), nil }

	rec := h.do(http.MethodPost, "/tasks/"+taskID+"/delete", aliceToken, url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/lists/"+listID, rec.Header().Get("Location"))

	h.tasks.del = func(string, string) (*models.Task, error) { return nil, common.ErrorNotFound }
	rec = h.do(http.MethodPost, "/tasks/"+taskID+"/delete", aliceToken, url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
