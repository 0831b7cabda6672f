package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/todolists/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
	RevokeSessions(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
