package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/server/auth"
	"github.com/dmitrijs2005/todolists/internal/server/forms"
	"github.com/dmitrijs2005/todolists/internal/server/models"
	"github.com/dmitrijs2005/todolists/internal/server/repositories/repomanager"
)

const listTitleInUse = "A list with this title already exists."

type ListService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewListService(db *sql.DB, m repomanager.RepositoryManager) *ListService {
	return &ListService{db: db, repomanager: m, now: time.Now}
}

// Create validates in and stores a new list for userID. A duplicate title
// comes back as a form-wide error.
func (s *ListService) Create(ctx context.Context, userID string, in forms.ListInput) (*models.List, error) {
	if fe := in.Validate(); fe.Any() {
		return nil, fe
	}

	now := s.now()
	list := &models.List{OwnerID: userID, Title: in.Title, Description: in.Description, CreatedAt: now, UpdatedAt: now}

	l, err := s.repomanager.Lists(s.db).Create(ctx, list)
	if err != nil {
		if errors.Is(err, common.ErrTitleInUse) {
			return nil, forms.NewFormError(listTitleInUse)
		}
		return nil, fmt.Errorf("error creating list: %w", err)
	}
	return l, nil
}

// Get loads a list and checks that userID owns it. Missing lists yield
// common.ErrorNotFound, lists of other users common.ErrNotOwned.
func (s *ListService) Get(ctx context.Context, userID, id string) (*models.List, error) {
	l, err := s.repomanager.Lists(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading list: %w", err)
	}
	if !auth.OwnsList(userID, l) {
		return nil, common.ErrNotOwned
	}
	return l, nil
}

func (s *ListService) ListForOwner(ctx context.Context, userID string) ([]*models.List, error) {
	lists, err := s.repomanager.Lists(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading lists: %w", err)
	}
	return lists, nil
}

func (s *ListService) Update(ctx context.Context, userID, id string, in forms.ListInput) (*models.List, error) {
	l, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if fe := in.Validate(); fe.Any() {
		return nil, fe
	}

	l.Title = in.Title
	l.Description = in.Description
	l.UpdatedAt = s.now()

	if err := s.repomanager.Lists(s.db).Update(ctx, l); err != nil {
		if errors.Is(err, common.ErrTitleInUse) {
			return nil, forms.NewFormError(listTitleInUse)
		}
		return nil, fmt.Errorf("error updating list: %w", err)
	}
	return l, nil
}

// Delete removes an owned list and, by cascade, its tasks.
func (s *ListService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Lists(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting list: %w", err)
	}
	return nil
}
