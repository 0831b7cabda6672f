package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/dbx"
	"github.com/dmitrijs2005/todolists/internal/server/auth"
	"github.com/dmitrijs2005/todolists/internal/server/forms"
	"github.com/dmitrijs2005/todolists/internal/server/models"
	"github.com/dmitrijs2005/todolists/internal/server/repositories/repomanager"
)

const taskTitleInUse = "A task with this title already exists."

type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	lists       *ListService
	now         func() time.Time
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, lists *ListService) *TaskService {
	return &TaskService{db: db, repomanager: m, lists: lists, now: time.Now}
}

// Create adds a task to the list identified by listID. The task caches the
// list owner. Insert and list touch share one transaction.
func (s *TaskService) Create(ctx context.Context, userID, listID string, in forms.TaskInput) (*models.Task, error) {
	list, err := s.lists.Get(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if fe := in.Validate(now); fe.Any() {
		return nil, fe
	}

	task := &models.Task{
		ListID:      list.ID,
		OwnerID:     list.OwnerID,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   now,
		DueDate:     in.Due(),
		Status:      models.StatusPending,
		Priority:    models.Priority(in.Priority),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Tasks(tx).Create(ctx, task); err != nil {
			return err
		}
		return s.repomanager.Lists(tx).Touch(ctx, list.ID, now)
	})
	if err != nil {
		if errors.Is(err, common.ErrTitleInUse) {
			return nil, forms.NewFormError(taskTitleInUse)
		}
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

// Get loads a task and checks the cached owner against userID.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	t, err := s.repomanager.Tasks(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading task: %w", err)
	}
	if !auth.OwnsTask(userID, t) {
		return nil, common.ErrNotOwned
	}
	return t, nil
}

// ListForList returns the list with its tasks after the ownership check.
func (s *TaskService) ListForList(ctx context.Context, userID, listID string) (*models.List, []*models.Task, error) {
	list, err := s.lists.Get(ctx, userID, listID)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.repomanager.Tasks(s.db).ListByList(ctx, list.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading tasks: %w", err)
	}
	return list, tasks, nil
}

// Update applies the submitted fields and the status side effects, then
// touches the parent list, all in one transaction.
func (s *TaskService) Update(ctx context.Context, userID, id string, in forms.TaskUpdateInput) (*models.Task, error) {
	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if fe := in.Validate(now, task.DueDate); fe.Any() {
		return nil, fe
	}

	task.Title = in.Title
	task.Description = in.Description
	task.DueDate = in.Due()
	task.Priority = models.Priority(in.Priority)
	task.ApplyStatus(models.Status(in.Status), now)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Tasks(tx).Update(ctx, task); err != nil {
			return err
		}
		return s.repomanager.Lists(tx).Touch(ctx, task.ListID, now)
	})
	if err != nil {
		if errors.Is(err, common.ErrTitleInUse) {
			return nil, forms.NewFormError(taskTitleInUse)
		}
		return nil, fmt.Errorf("error updating task: %w", err)
	}
	return task, nil
}

// Delete removes an owned task and returns it so callers can go back to its list.
func (s *TaskService) Delete(ctx context.Context, userID, id string) (*models.Task, error) {
	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Tasks(s.db).Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("error deleting task: %w", err)
	}
	return task, nil
}
