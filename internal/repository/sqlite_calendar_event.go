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

const calendarEventColumns = `id, project_id, task_id, title, start_date, end_date, color, created_at`

// SQLiteCalendarEventRepo implements CalendarEventRepo using a SQLite database.
type SQLiteCalendarEventRepo struct {
	db db.DBTX
}

// NewSQLiteCalendarEventRepo creates a new SQLiteCalendarEventRepo.
func NewSQLiteCalendarEventRepo(db db.DBTX) *SQLiteCalendarEventRepo {
	return &SQLiteCalendarEventRepo{db: db}
}

func (r *SQLiteCalendarEventRepo) Create(ctx context.Context, e *domain.CalendarEvent) error {
	query := `INSERT INTO calendar_events (` + calendarEventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		nullableString(e.ProjectID),
		nullableString(e.TaskID),
		e.Title,
		e.StartDate.Format(time.RFC3339),
		e.EndDate.Format(time.RFC3339),
		e.Color,
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting calendar event: %w", err)
	}
	return nil
}

func (r *SQLiteCalendarEventRepo) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events WHERE id = ?`
	e, err := scanCalendarEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("calendar event %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning calendar event: %w", err)
	}
	return e, nil
}

func (r *SQLiteCalendarEventRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events WHERE task_id = ? ORDER BY start_date, id`
	return r.queryEvents(ctx, query, taskID)
}

// ListByProject returns project-level events only, not events of the
// project's tasks.
func (r *SQLiteCalendarEventRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events
		WHERE project_id = ? AND task_id IS NULL ORDER BY start_date, id`
	return r.queryEvents(ctx, query, projectID)
}

func (r *SQLiteCalendarEventRepo) DeleteByTaskIDs(ctx context.Context, taskIDs []string) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	query, args, err := buildDeleteIn("calendar_events", "task_id", taskIDs)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting task calendar events: %w", err)
	}
	return res.RowsAffected()
}

// DeleteByProjectIDs removes every event referencing any of projectIDs,
// including task events that also carry the project id.
func (r *SQLiteCalendarEventRepo) DeleteByProjectIDs(ctx context.Context, projectIDs []string) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	query, args, err := buildDeleteIn("calendar_events", "project_id", projectIDs)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting project calendar events: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteCalendarEventRepo) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing calendar events: %w", err)
	}
	defer rows.Close()

	var events []*domain.CalendarEvent
	for rows.Next() {
		e, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning calendar event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendar events: %w", err)
	}
	return events, nil
}

func scanCalendarEvent(row rowScanner) (*domain.CalendarEvent, error) {
	var e domain.CalendarEvent
	var projectID, taskID sql.NullString
	var startStr, endStr, createdAtStr string
	if err := row.Scan(
		&e.ID, &projectID, &taskID, &e.Title, &startStr, &endStr, &e.Color, &createdAtStr,
	); err != nil {
		return nil, err
	}
	e.ProjectID = stringPtr(projectID)
	e.TaskID = stringPtr(taskID)

	var err error
	if e.StartDate, err = time.Parse(time.RFC3339, startStr); err != nil {
		return nil, fmt.Errorf("parsing event start: %w", err)
	}
	if e.EndDate, err = time.Parse(time.RFC3339, endStr); err != nil {
		return nil, fmt.Errorf("parsing event end: %w", err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing event created_at: %w", err)
	}
	return &e, nil
}
