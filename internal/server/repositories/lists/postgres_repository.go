// Package lists provides the PostgreSQL-backed list repository.
//
// The (owner_id, title) pair is protected by the lists_owner_title_key
// constraint; a violation on insert or update surfaces as
// common.ErrTitleInUse so the write and the uniqueness check are one step.
package lists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/dbx"
	"github.com/dmitrijs2005/todolists/internal/server/models"
)

const titleConstraint = "lists_owner_title_key"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, list *models.List) (*models.List, error) {
	query :=
		`INSERT INTO lists (owner_id, title, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		list.OwnerID, list.Title, list.Description, list.CreatedAt, list.UpdatedAt).Scan(&list.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err, titleConstraint) {
			return nil, common.ErrTitleInUse
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.List, error) {
	query :=
		`SELECT id, owner_id, title, description, created_at, updated_at FROM lists
		 WHERE id = $1
		 `

	list := &models.List{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&list.ID, &list.OwnerID, &list.Title, &list.Description, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

// ListByOwner returns the owner's lists, most recently updated first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.List, error) {
	query :=
		`SELECT id, owner_id, title, description, created_at, updated_at FROM lists
		 WHERE owner_id = $1
		 ORDER BY updated_at DESC, title
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.List
	for rows.Next() {
		list := &models.List{}
		if err := rows.Scan(&list.ID, &list.OwnerID, &list.Title, &list.Description, &list.CreatedAt, &list.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, list *models.List) error {
	query :=
		`UPDATE lists SET title = $1, description = $2, updated_at = $3
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, list.Title, list.Description, list.UpdatedAt, list.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err, titleConstraint) {
			return common.ErrTitleInUse
		}
		return fmt.Errorf("db error: %w", err)
	}
	return oneRow(res)
}

// Touch bumps updated_at, used when a child task changes.
func (r *PostgresRepository) Touch(ctx context.Context, id string, at time.Time) error {
	query :=
		`UPDATE lists SET updated_at = $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRow(res)
}

// Delete removes the list; its tasks go with it through ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM lists
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRow(res)
}

func oneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
