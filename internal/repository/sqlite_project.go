package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackson-sweet/opsapp-sub001/internal/db"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
)

const projectColumns = `id, client_id, title, status, address, start_date, end_date, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ClientID,
		p.Title,
		string(p.Status),
		p.Address,
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, q ProjectQuery) ([]*domain.Project, error) {
	sel := sq.Select(projectColumns).From("projects").OrderBy("title COLLATE NOCASE", "id")
	if q.ClientID != "" {
		sel = sel.Where(squirrel.Eq{"client_id": q.ClientID})
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		sel = sel.Where(squirrel.Eq{"status": statuses})
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building project query: %w", err)
	}
	return r.queryProjects(ctx, query, args...)
}

// ListByClient returns the client's projects ordered by title (case-insensitive),
// with the id as tie-break so the order is stable.
func (r *SQLiteProjectRepo) ListByClient(ctx context.Context, clientID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE client_id = ? ORDER BY title COLLATE NOCASE, id`
	return r.queryProjects(ctx, query, clientID)
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET client_id = ?, title = ?, status = ?, address = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.ClientID,
		p.Title,
		string(p.Status),
		p.Address,
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

// ReassignClient re-points every project in ids to clientID in one statement
// and returns the number of rows moved.
func (r *SQLiteProjectRepo) ReassignClient(ctx context.Context, ids []string, clientID string) (int64, error) {
	query, args, err := buildRepoint("projects", "client_id", clientID, ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("re-pointing projects: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteProjectRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	query, args, err := buildDeleteIn("projects", "id", ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting projects: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteProjectRepo) queryProjects(ctx context.Context, query string, args ...any) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var statusStr, createdAtStr, updatedAtStr string
	var startDateStr, endDateStr sql.NullString

	if err := row.Scan(
		&p.ID, &p.ClientID, &p.Title, &statusStr, &p.Address,
		&startDateStr, &endDateStr,
		&createdAtStr, &updatedAtStr,
	); err != nil {
		return nil, err
	}

	p.Status = domain.ProjectStatus(statusStr)
	p.StartDate = parseNullableTime(startDateStr, dateLayout)
	p.EndDate = parseNullableTime(endDateStr, dateLayout)

	var err error
	p.CreatedAt, p.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing project timestamps: %w", err)
	}
	return &p, nil
}
