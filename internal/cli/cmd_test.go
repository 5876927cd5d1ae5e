package cli

import (
	"bytes"
	"context"
	"database/sql"
	"net/http/httptest"
	"testing"

	"github.com/jackson-sweet/opsapp-sub001/internal/backend"
	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/eventbus"
	"github.com/jackson-sweet/opsapp-sub001/internal/logging"
	"github.com/jackson-sweet/opsapp-sub001/internal/reassign"
	"github.com/jackson-sweet/opsapp-sub001/internal/remote"
	"github.com/jackson-sweet/opsapp-sub001/internal/repository"
	"github.com/jackson-sweet/opsapp-sub001/internal/service"
	"github.com/jackson-sweet/opsapp-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app     *App
	db      *sql.DB
	backend *backend.Backend
}

func testApp(t *testing.T) testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	b := backend.New(backend.Options{})
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	client := remote.NewClient(remote.Config{BaseURL: srv.URL, TimeoutMs: 2000, MaxRetries: 0}, nil)
	bus := eventbus.New(logging.Nop())

	return testEnv{
		app: &App{
			Clients:    service.NewClientService(repository.NewSQLiteClientRepo(database), nil),
			Projects:   service.NewProjectService(repository.NewSQLiteProjectRepo(database), uow),
			TaskTypes:  service.NewTaskTypeService(repository.NewSQLiteTaskTypeRepo(database), nil),
			Tasks:      service.NewTaskService(repository.NewSQLiteTaskRepo(database), uow),
			Reassign:   reassign.New(reassign.Deps{UoW: uow, Remote: client, Notifier: bus}),
			Bus:        bus,
			NoProgress: true,
		},
		db:      database,
		backend: b,
	}
}

func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

type clientSeed struct {
	p, q         *domain.Client
	alpha, bravo *domain.Project
	install      *domain.TaskType
	bravoTask    *domain.Task
}

// seedClients creates "Parent Co" with projects alpha and Bravo, where Bravo
// has one task, and an empty "Quartz Homes". The backend knows both clients.
func seedClients(t *testing.T, env testEnv) clientSeed {
	t.Helper()
	ctx := context.Background()
	var s clientSeed
	s.p = testutil.NewTestClient("Parent Co", testutil.WithClientID("aaaa1111-0000-0000-0000-000000000001"))
	s.q = testutil.NewTestClient("Quartz Homes", testutil.WithClientID("bbbb2222-0000-0000-0000-000000000002"))
	clients := repository.NewSQLiteClientRepo(env.db)
	require.NoError(t, clients.Create(ctx, s.p))
	require.NoError(t, clients.Create(ctx, s.q))

	s.alpha = testutil.NewTestProject(s.p.ID, "alpha")
	s.bravo = testutil.NewTestProject(s.p.ID, "Bravo")
	projects := repository.NewSQLiteProjectRepo(env.db)
	require.NoError(t, projects.Create(ctx, s.alpha))
	require.NoError(t, projects.Create(ctx, s.bravo))

	s.install = testutil.NewTestTaskType("Install")
	require.NoError(t, repository.NewSQLiteTaskTypeRepo(env.db).Create(ctx, s.install))
	s.bravoTask = testutil.NewTestTask(s.bravo.ID, s.install.ID)
	require.NoError(t, repository.NewSQLiteTaskRepo(env.db).Create(ctx, s.bravoTask))

	env.backend.Seed(domain.KindClient, s.p.ID, s.alpha.ID, s.bravo.ID)
	env.backend.Seed(domain.KindClient, s.q.ID)
	env.backend.Seed(domain.KindTaskType, s.install.ID, s.bravoTask.ID)
	return s
}

func projectClientID(t *testing.T, database *sql.DB, id string) string {
	t.Helper()
	p, err := repository.NewSQLiteProjectRepo(database).GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.ClientID
}

func hasProject(database *sql.DB, id string) bool {
	_, err := repository.NewSQLiteProjectRepo(database).GetByID(context.Background(), id)
	return err == nil
}

func hasClient(database *sql.DB, id string) bool {
	_, err := repository.NewSQLiteClientRepo(database).GetByID(context.Background(), id)
	return err == nil
}

// fakePrompter answers prompts from canned values and records confirm titles.
type fakePrompter struct {
	decide   func(children []reassign.Child, targets []reassign.Parent) map[string]reassign.Decision
	answers  []bool
	confirms []string
}

func (p *fakePrompter) Decide(_ reassign.Parent, children []reassign.Child, targets []reassign.Parent) (map[string]reassign.Decision, error) {
	return p.decide(children, targets), nil
}

func (p *fakePrompter) Confirm(title, _ string) (bool, error) {
	p.confirms = append(p.confirms, title)
	if len(p.answers) == 0 {
		return false, nil
	}
	ok := p.answers[0]
	p.answers = p.answers[1:]
	return ok, nil
}

func interactive(app *App, p Prompter) {
	app.IsInteractive = func() bool { return true }
	app.Prompter = p
}

// --- client ---

func TestClientAdd(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "client", "add", "--name", "  Acme Roofing ", "--email", "ops@acme.test")
	require.NoError(t, err)
	assert.Contains(t, out, "Created client Acme Roofing")

	clients, err := env.app.Clients.List(context.Background(), service.ClientFilter{})
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "ops@acme.test", clients[0].Email)
}

func TestClientAdd_NameRequired(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "client", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestClientAdd_DuplicateRefusedWhenNonInteractive(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)

	out, err := executeCmd(t, env.app, "client", "add", "--name", "parent co")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "possible duplicate client")
	assert.Contains(t, out, "looks like an existing client")
	assert.Contains(t, out, "Parent Co")

	clients, err := env.app.Clients.List(context.Background(), service.ClientFilter{})
	require.NoError(t, err)
	assert.Len(t, clients, 2)
}

func TestClientAdd_DuplicateWithForce(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)

	out, err := executeCmd(t, env.app, "client", "add", "--name", "parent co", "--force")
	require.NoError(t, err)
	assert.NotContains(t, out, "looks like")

	clients, err := env.app.Clients.List(context.Background(), service.ClientFilter{})
	require.NoError(t, err)
	assert.Len(t, clients, 3)
}

func TestClientAdd_DuplicateConfirmedInteractively(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)
	p := &fakePrompter{answers: []bool{true}}
	interactive(env.app, p)

	_, err := executeCmd(t, env.app, "client", "add", "--name", "Parent Co")
	require.NoError(t, err)
	assert.Equal(t, []string{"Create anyway?"}, p.confirms)
}

func TestClientList(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)

	out, err := executeCmd(t, env.app, "client", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Parent Co")
	assert.Contains(t, out, "Quartz Homes")

	out, err = executeCmd(t, env.app, "client", "list", "-q", "quartz")
	require.NoError(t, err)
	assert.Contains(t, out, "Quartz Homes")
	assert.NotContains(t, out, "Parent Co")
}

func TestClientList_Grouped(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)

	out, err := executeCmd(t, env.app, "client", "list", "--grouped")
	require.NoError(t, err)
	p := bytes.Index([]byte(out), []byte("Parent Co"))
	q := bytes.Index([]byte(out), []byte("Quartz Homes"))
	require.True(t, p >= 0 && q >= 0)
	assert.Less(t, p, q)
}

func TestClientList_Empty(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "client", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No clients found.")
}

func TestClientShow_ByPrefix(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)

	out, err := executeCmd(t, env.app, "client", "show", "aaaa")
	require.NoError(t, err)
	assert.Contains(t, out, "Parent Co")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "Bravo")
}

func TestClientShow_NotFound(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)

	_, err := executeCmd(t, env.app, "client", "show", "zzzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client not found")
}

// --- project ---

func TestProjectAdd(t *testing.T) {
	env := testApp(t)
	s := seedClients(t, env)

	out, err := executeCmd(t, env.app, "project", "add", "--client", "bbbb", "--title", "Deck", "--start", "2026-03-01", "--end", "2026-03-05")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Deck")

	projects, err := env.app.Projects.List(context.Background(), service.ProjectFilter{ClientID: s.q.ID})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, domain.ProjectRFQ, projects[0].Status)
	require.NotNil(t, projects[0].StartDate)
	assert.Equal(t, 2026, projects[0].StartDate.Year())
}

func TestProjectAdd_EndBeforeStart(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)

	_, err := executeCmd(t, env.app, "project", "add", "--client", "bbbb", "--title", "Deck", "--start", "2026-03-05", "--end", "2026-03-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before start date")
}

func TestProjectAdd_BadDate(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)

	_, err := executeCmd(t, env.app, "project", "add", "--client", "bbbb", "--title", "Deck", "--start", "03/05/2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start date")
}

func TestProjectList_Filters(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)

	out, err := executeCmd(t, env.app, "project", "list", "--client", "aaaa")
	require.NoError(t, err)
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "Bravo")
	assert.Contains(t, out, "Parent Co")

	out, err = executeCmd(t, env.app, "project", "list", "-q", "brav")
	require.NoError(t, err)
	assert.Contains(t, out, "Bravo")
	assert.NotContains(t, out, "alpha")

	out, err = executeCmd(t, env.app, "project", "list", "--status", "rfq")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found.")
}

func TestProjectList_UnknownStatus(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "project", "list", "--status", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown project status "bogus"`)
}

// --- task types and tasks ---

func TestTaskTypeAddAndList(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)

	out, err := executeCmd(t, env.app, "tasktype", "add", "--display", "Quote", "--color", "#ff8800", "--order", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Created task type Quote")

	out, err = executeCmd(t, env.app, "tasktype", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Quote")
	assert.Contains(t, out, "Install")
}

func TestTaskTypeAdd_InvalidColor(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "tasktype", "add", "--display", "Quote", "--color", "orange")
	require.Error(t, err)
}

func TestTaskTypeAdd_Duplicate(t *testing.T) {
	env := testApp(t)
	seedClients(t, env)

	_, err := executeCmd(t, env.app, "tasktype", "add", "--display", "install", "--color", "#00ff00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "possible duplicate task type")
}

func TestTaskAddAndList(t *testing.T) {
	env := testApp(t)
	s := seedClients(t, env)

	out, err := executeCmd(t, env.app, "task", "add", "--project", s.alpha.ID[:8], "--type", s.install.ID, "--notes", "north wall")
	require.NoError(t, err)
	assert.Contains(t, out, "Created task #")

	tasks, err := env.app.Tasks.ListByProject(context.Background(), s.alpha.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.TaskBooked, tasks[0].Status)

	out, err = executeCmd(t, env.app, "task", "list", "--type", s.install.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Install")

	tasksOfType, err := env.app.Tasks.ListByTaskType(context.Background(), s.install.ID)
	require.NoError(t, err)
	assert.Len(t, tasksOfType, 2)
}

func TestTaskList_NeedsFilter(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "task", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--project")
}

func TestTaskList_ProjectWithoutTasks(t *testing.T) {
	env := testApp(t)
	s := seedClients(t, env)

	out, err := executeCmd(t, env.app, "task", "list", "--project", s.alpha.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")
}

// --- lock ---

func TestMutatingCommandsTakeTheLock(t *testing.T) {
	env := testApp(t)
	var acquired, released int
	env.app.Lock = func(context.Context) (func() error, error) {
		acquired++
		return func() error { released++; return nil }, nil
	}

	_, err := executeCmd(t, env.app, "client", "add", "--name", "Acme")
	require.NoError(t, err)
	_, err = executeCmd(t, env.app, "client", "list")
	require.NoError(t, err)

	assert.Equal(t, 1, acquired)
	assert.Equal(t, 1, released)
}

func TestLockFailureStopsCommand(t *testing.T) {
	env := testApp(t)
	env.app.Lock = func(context.Context) (func() error, error) {
		return nil, assert.AnError
	}

	_, err := executeCmd(t, env.app, "client", "add", "--name", "Acme")
	require.ErrorIs(t, err, assert.AnError)

	clients, err := env.app.Clients.List(context.Background(), service.ClientFilter{})
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestProjectAdd_StatusFlag(t *testing.T) {
	env := testApp(t)
	s := seedClients(t, env)

	_, err := executeCmd(t, env.app, "project", "add", "--client", "bbbb", "--title", "Deck", "--status", "Estimated")
	require.NoError(t, err)
	projects, err := env.app.Projects.List(context.Background(), service.ProjectFilter{ClientID: s.q.ID})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, domain.ProjectStatus("estimated"), projects[0].Status)

	_, err = executeCmd(t, env.app, "project", "add", "--client", "bbbb", "--title", "Shed", "--status", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}
