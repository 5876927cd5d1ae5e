package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackson-sweet/opsapp-sub001/internal/db"
	"github.com/jackson-sweet/opsapp-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringRepoint verifies that readers listing a
// client's projects never observe a half-applied batched re-point.
func TestConcurrentAccess_ReadDuringRepoint(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	clients := NewSQLiteClientRepo(database)
	projects := NewSQLiteProjectRepo(database)

	from := seedClient(t, clients, "From")
	to := seedClient(t, clients, "To")

	const projectCount = 25
	ids := make([]string, 0, projectCount)
	for i := 0; i < projectCount; i++ {
		p := testutil.NewTestProject(from.ID, fmt.Sprintf("Project-%02d", i))
		require.NoError(t, projects.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := projects.ReassignClient(ctx, ids, to.ID); err != nil {
			t.Errorf("writer: re-point: %v", err)
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				a, err := projects.ListByClient(ctx, from.ID)
				if err != nil {
					t.Errorf("reader %d: list from: %v", reader, err)
					return
				}
				if len(a) != 0 && len(a) != projectCount {
					t.Errorf("reader %d: saw %d of %d projects on source client", reader, len(a), projectCount)
				}
			}
		}(r)
	}

	wg.Wait()

	moved, err := projects.ListByClient(ctx, to.ID)
	require.NoError(t, err)
	assert.Len(t, moved, projectCount)
}

func TestConcurrentAccess_NextIndex_NoDuplicates(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	c := seedClient(t, NewSQLiteClientRepo(database), "Acme")
	proj := testutil.NewTestProject(c.ID, "Index Concurrency")
	require.NoError(t, NewSQLiteProjectRepo(database).Create(ctx, proj))
	tt := testutil.NewTestTaskType("Install")
	require.NoError(t, NewSQLiteTaskTypeRepo(database).Create(ctx, tt))
	uow := db.NewSQLiteUnitOfWork(database)

	retryTx := func(fn func() error) error {
		const maxRetries = 10
		var err error
		for attempt := 0; attempt < maxRetries; attempt++ {
			if err = fn(); err == nil {
				return nil
			}
			time.Sleep(time.Millisecond * time.Duration(1<<attempt))
		}
		return err
	}

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := retryTx(func() error {
				return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
					tasks := NewSQLiteTaskRepo(tx)
					idx, err := tasks.NextIndex(ctx, proj.ID)
					if err != nil {
						return err
					}
					return tasks.Create(ctx, testutil.NewTestTask(proj.ID, tt.ID, testutil.WithTaskIndex(idx)))
				})
			})
			if err != nil {
				errCh <- err
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	list, err := NewSQLiteTaskRepo(database).ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, workers)
	seen := make(map[int]bool, workers)
	for _, task := range list {
		assert.Falsef(t, seen[task.TaskIndex], "duplicate task index %d", task.TaskIndex)
		seen[task.TaskIndex] = true
	}
}
