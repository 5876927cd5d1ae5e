package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackson-sweet/opsapp-sub001/internal/db"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
)

const taskTypeColumns = `id, display, color, icon, is_default, display_order, created_at, updated_at`

// SQLiteTaskTypeRepo implements TaskTypeRepo using a SQLite database.
type SQLiteTaskTypeRepo struct {
	db db.DBTX
}

// NewSQLiteTaskTypeRepo creates a new SQLiteTaskTypeRepo.
func NewSQLiteTaskTypeRepo(db db.DBTX) *SQLiteTaskTypeRepo {
	return &SQLiteTaskTypeRepo{db: db}
}

func (r *SQLiteTaskTypeRepo) Create(ctx context.Context, t *domain.TaskType) error {
	query := `INSERT INTO task_types (` + taskTypeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Display,
		t.Color,
		t.Icon,
		boolToInt(t.IsDefault),
		t.DisplayOrder,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task type: %w", err)
	}
	return nil
}

func (r *SQLiteTaskTypeRepo) GetByID(ctx context.Context, id string) (*domain.TaskType, error) {
	query := `SELECT ` + taskTypeColumns + ` FROM task_types WHERE id = ?`
	t, err := scanTaskType(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task type %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task type: %w", err)
	}
	return t, nil
}

// List returns task types in display order, then by name.
func (r *SQLiteTaskTypeRepo) List(ctx context.Context) ([]*domain.TaskType, error) {
	query := `SELECT ` + taskTypeColumns + ` FROM task_types ORDER BY display_order, display COLLATE NOCASE, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing task types: %w", err)
	}
	defer rows.Close()

	var types []*domain.TaskType
	for rows.Next() {
		t, err := scanTaskType(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task type row: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task types: %w", err)
	}
	return types, nil
}

func (r *SQLiteTaskTypeRepo) Update(ctx context.Context, t *domain.TaskType) error {
	query := `UPDATE task_types SET display = ?, color = ?, icon = ?, is_default = ?, display_order = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Display,
		t.Color,
		t.Icon,
		boolToInt(t.IsDefault),
		t.DisplayOrder,
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task type: %w", err)
	}
	return requireAffected(res, "task type", t.ID)
}

func (r *SQLiteTaskTypeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_types WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task type: %w", err)
	}
	return requireAffected(res, "task type", id)
}

func scanTaskType(row rowScanner) (*domain.TaskType, error) {
	var t domain.TaskType
	var isDefault int
	var createdAtStr, updatedAtStr string
	if err := row.Scan(
		&t.ID, &t.Display, &t.Color, &t.Icon, &isDefault, &t.DisplayOrder,
		&createdAtStr, &updatedAtStr,
	); err != nil {
		return nil, err
	}
	t.IsDefault = isDefault != 0
	var err error
	t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing task type timestamps: %w", err)
	}
	return &t, nil
}
