package lists

import (
	"context"
	"time"

	"github.com/dmitrijs2005/todolists/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, list *models.List) (*models.List, error)
	GetByID(ctx context.Context, id string) (*models.List, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.List, error)
	Update(ctx context.Context, list *models.List) error
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
