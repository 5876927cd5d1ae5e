package reassign

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/remote"
	"github.com/jackson-sweet/opsapp-sub001/internal/repository"
	"github.com/jackson-sweet/opsapp-sub001/internal/testutil"
	"github.com/stretchr/testify/require"
)

type remoteCall struct {
	Op       string
	Kind     domain.ParentKind
	IDs      []string
	ParentID string
	Aux      remote.Aux
}

// fakeRemote records calls and fails them on demand.
type fakeRemote struct {
	mu       sync.Mutex
	calls    []remoteCall
	failures map[string][]error

	// beforeDeleteParent runs before DeleteParent is answered.
	beforeDeleteParent func()
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{failures: make(map[string][]error)}
}

func (f *fakeRemote) failNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = append(f.failures[op], err)
}

func (f *fakeRemote) record(c remoteCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if q := f.failures[c.Op]; len(q) > 0 {
		f.failures[c.Op] = q[1:]
		return q[0]
	}
	return nil
}

func (f *fakeRemote) UpdateChildParent(_ context.Context, kind domain.ParentKind, childID, newParentID string, aux remote.Aux) error {
	return f.record(remoteCall{Op: "update", Kind: kind, IDs: []string{childID}, ParentID: newParentID, Aux: aux})
}

func (f *fakeRemote) BulkUpdateChildParent(_ context.Context, kind domain.ParentKind, childIDs []string, newParentID string, aux remote.Aux) error {
	ids := append([]string(nil), childIDs...)
	return f.record(remoteCall{Op: "bulk", Kind: kind, IDs: ids, ParentID: newParentID, Aux: aux})
}

func (f *fakeRemote) DeleteParent(_ context.Context, kind domain.ParentKind, parentID string) error {
	if f.beforeDeleteParent != nil {
		f.beforeDeleteParent()
	}
	return f.record(remoteCall{Op: "delete_parent", Kind: kind, ParentID: parentID})
}

func (f *fakeRemote) callsOf(op string) []remoteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []remoteCall
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// clientFixture is client P with projects Alpha, Bravo and Charlie, plus a
// second client Q. Bravo has a task and calendar events.
type clientFixture struct {
	db        *sql.DB
	p, q      *domain.Client
	alpha     *domain.Project
	bravo     *domain.Project
	charlie   *domain.Project
	bravoTask *domain.Task
}

func seedClientFixture(t *testing.T) clientFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	clients := repository.NewSQLiteClientRepo(database)
	projects := repository.NewSQLiteProjectRepo(database)

	f := clientFixture{db: database}
	f.p = testutil.NewTestClient("Parent Co")
	f.q = testutil.NewTestClient("Quartz Homes")
	require.NoError(t, clients.Create(ctx, f.p))
	require.NoError(t, clients.Create(ctx, f.q))

	// Created out of order so the session has to sort by title.
	f.charlie = testutil.NewTestProject(f.p.ID, "Charlie")
	f.alpha = testutil.NewTestProject(f.p.ID, "alpha")
	f.bravo = testutil.NewTestProject(f.p.ID, "Bravo")
	for _, p := range []*domain.Project{f.charlie, f.alpha, f.bravo} {
		require.NoError(t, projects.Create(ctx, p))
	}

	tt := testutil.NewTestTaskType("Install")
	require.NoError(t, repository.NewSQLiteTaskTypeRepo(database).Create(ctx, tt))
	f.bravoTask = testutil.NewTestTask(f.bravo.ID, tt.ID)
	require.NoError(t, repository.NewSQLiteTaskRepo(database).Create(ctx, f.bravoTask))

	events := repository.NewSQLiteCalendarEventRepo(database)
	require.NoError(t, events.Create(ctx, testutil.NewTestProjectEvent(f.bravo.ID)))
	require.NoError(t, events.Create(ctx, testutil.NewTestTaskEvent(f.bravo.ID, f.bravoTask.ID)))
	return f
}

func newWorkflow(uow *testutil.RecordingUoW, rem SystemOfRecord, n Notifier) *Workflow {
	return New(Deps{UoW: uow, Remote: rem, Notifier: n})
}

func projectClient(t *testing.T, database *sql.DB, id string) string {
	t.Helper()
	p, err := repository.NewSQLiteProjectRepo(database).GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.ClientID
}

func projectExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	_, err := repository.NewSQLiteProjectRepo(database).GetByID(context.Background(), id)
	if err == nil {
		return true
	}
	require.ErrorIs(t, err, repository.ErrNotFound)
	return false
}

func clientExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	_, err := repository.NewSQLiteClientRepo(database).GetByID(context.Background(), id)
	if err == nil {
		return true
	}
	require.ErrorIs(t, err, repository.ErrNotFound)
	return false
}
