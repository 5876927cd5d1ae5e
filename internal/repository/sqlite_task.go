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

const taskColumns = `id, project_id, task_type_id, status, task_index, notes, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.TaskTypeID,
		string(t.Status),
		t.TaskIndex,
		t.Notes,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return t, nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY task_index, id`
	return r.queryTasks(ctx, query, projectID)
}

// ListByTaskType returns the type's tasks ordered by TaskIndex, id as tie-break.
func (r *SQLiteTaskRepo) ListByTaskType(ctx context.Context, taskTypeID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_type_id = ? ORDER BY task_index, id`
	return r.queryTasks(ctx, query, taskTypeID)
}

// ListIDsByProjects returns the ids of every task owned by any of projectIDs.
func (r *SQLiteTaskRepo) ListIDsByProjects(ctx context.Context, projectIDs []string) ([]string, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	query, args, err := buildSelectIDsIn("tasks", "project_id", projectIDs)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing task ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning task id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task ids: %w", err)
	}
	return ids, nil
}

// NextIndex returns one past the highest task_index in the project, or 0 for
// a project without tasks.
func (r *SQLiteTaskRepo) NextIndex(ctx context.Context, projectID string) (int, error) {
	var maxIdx sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(task_index) FROM tasks WHERE project_id = ?`, projectID,
	).Scan(&maxIdx)
	if err != nil {
		return 0, fmt.Errorf("reading max task index: %w", err)
	}
	if !maxIdx.Valid {
		return 0, nil
	}
	return int(maxIdx.Int64) + 1, nil
}

// ReassignTaskType re-points every task in ids to taskTypeID in one statement.
func (r *SQLiteTaskRepo) ReassignTaskType(ctx context.Context, ids []string, taskTypeID string) (int64, error) {
	query, args, err := buildRepoint("tasks", "task_type_id", taskTypeID, ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("re-pointing tasks: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteTaskRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	query, args, err := buildDeleteIn("tasks", "id", ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting tasks: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteTaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var statusStr, createdAtStr, updatedAtStr string
	if err := row.Scan(
		&t.ID, &t.ProjectID, &t.TaskTypeID, &statusStr, &t.TaskIndex, &t.Notes,
		&createdAtStr, &updatedAtStr,
	); err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(statusStr)
	var err error
	t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing task timestamps: %w", err)
	}
	return &t, nil
}
