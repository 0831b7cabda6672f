// Package tasks provides the PostgreSQL-backed task repository.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/dbx"
	"github.com/dmitrijs2005/todolists/internal/server/models"
)

const titleConstraint = "tasks_owner_title_key"

const selectColumns = `id, list_id, owner_id, title, description, created_at, due_date,
		 completed_at, completed, status, priority`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (list_id, owner_id, title, description, created_at, due_date,
		 completed_at, completed, status, priority)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.ListID, task.OwnerID, task.Title, task.Description, task.CreatedAt, task.DueDate,
		task.CompletedAt, task.Completed, string(task.Status), string(task.Priority)).Scan(&task.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err, titleConstraint) {
			return nil, common.ErrTitleInUse
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + selectColumns + ` FROM tasks
		 WHERE id = $1
		 `

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// ListByList returns the tasks of a list ordered by due date then title.
func (r *PostgresRepository) ListByList(ctx context.Context, listID string) ([]*models.Task, error) {
	query := `SELECT ` + selectColumns + ` FROM tasks
		 WHERE list_id = $1
		 ORDER BY due_date, title
		 `

	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update writes the user-editable fields together with the derived
// completion fields in one statement.
func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) error {
	query :=
		`UPDATE tasks SET title = $1, description = $2, due_date = $3, completed_at = $4,
		 completed = $5, status = $6, priority = $7
		 WHERE id = $8
		 `

	res, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.DueDate, task.CompletedAt, task.Completed,
		string(task.Status), string(task.Priority), task.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err, titleConstraint) {
			return common.ErrTitleInUse
		}
		return fmt.Errorf("db error: %w", err)
	}
	return oneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM tasks
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var (
		description sql.NullString
		completedAt sql.NullTime
		status      string
		priority    string
	)

	err := row.Scan(&task.ID, &task.ListID, &task.OwnerID, &task.Title, &description,
		&task.CreatedAt, &task.DueDate, &completedAt, &task.Completed, &status, &priority)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	task.Status = models.Status(status)
	task.Priority = models.Priority(priority)
	return task, nil
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
