package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// A second run must succeed.
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"clients", "projects", "task_types", "tasks", "calendar_events"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_client",
		"idx_tasks_project",
		"idx_tasks_task_type",
		"idx_calendar_events_project",
		"idx_calendar_events_task",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_RestrictsParentDelete(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO clients (id, name, created_at, updated_at) VALUES ('c1', 'Acme', 'x', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO projects (id, client_id, title, created_at, updated_at) VALUES ('p1', 'c1', 'Roof', 'x', 'x')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM clients WHERE id = 'c1'`)
	require.Error(t, err, "client with projects must not be deletable")

	_, err = db.Exec(`DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM clients WHERE id = 'c1'`)
	require.NoError(t, err)
}

func TestMigrate_CalendarEventNeedsOwner(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO calendar_events (id, title, start_date, end_date, created_at)
		VALUES ('e1', 'Orphan', 'x', 'x', 'x')`)
	require.Error(t, err)
}
