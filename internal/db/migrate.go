package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
//
// Child -> parent foreign keys are RESTRICT on purpose: a parent can only be
// deleted once every child has been re-pointed or removed, and dependents
// (tasks, calendar events) must be deleted explicitly before their owner.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		email        TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		address      TEXT NOT NULL DEFAULT '',
		notes        TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		client_id  TEXT NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		title      TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'rfq'
		           CHECK(status IN ('rfq','estimated','accepted','in_progress','completed','closed','archived')),
		address    TEXT NOT NULL DEFAULT '',
		start_date TEXT,
		end_date   TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client_id)`,

	`CREATE TABLE IF NOT EXISTS task_types (
		id            TEXT PRIMARY KEY,
		display       TEXT NOT NULL,
		color         TEXT NOT NULL,
		icon          TEXT NOT NULL DEFAULT '',
		is_default    INTEGER NOT NULL DEFAULT 0,
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE RESTRICT,
		task_type_id TEXT NOT NULL REFERENCES task_types(id) ON DELETE RESTRICT,
		status       TEXT NOT NULL DEFAULT 'booked'
		             CHECK(status IN ('booked','in_progress','completed','cancelled')),
		task_index   INTEGER NOT NULL DEFAULT 0,
		notes        TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_task_type ON tasks(task_type_id)`,

	`CREATE TABLE IF NOT EXISTS calendar_events (
		id         TEXT PRIMARY KEY,
		project_id TEXT REFERENCES projects(id) ON DELETE RESTRICT,
		task_id    TEXT REFERENCES tasks(id) ON DELETE RESTRICT,
		title      TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		color      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		CHECK(project_id IS NOT NULL OR task_id IS NOT NULL)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_calendar_events_project ON calendar_events(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_events_task ON calendar_events(task_id)`,
}
