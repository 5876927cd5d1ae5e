package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskFixture struct {
	client   *domain.Client
	project  *domain.Project
	taskType *domain.TaskType
}

func seedTaskFixture(t *testing.T, db *sql.DB) taskFixture {
	t.Helper()
	ctx := context.Background()
	c := testutil.NewTestClient("Acme")
	require.NoError(t, NewSQLiteClientRepo(db).Create(ctx, c))
	p := testutil.NewTestProject(c.ID, "Deck")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, p))
	tt := testutil.NewTestTaskType("Install")
	require.NoError(t, NewSQLiteTaskTypeRepo(db).Create(ctx, tt))
	return taskFixture{client: c, project: p, taskType: tt}
}

func TestTaskRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := seedTaskFixture(t, db)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask(f.project.ID, f.taskType.ID, testutil.WithTaskIndex(3))
	task.Notes = "bring ladder"
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, f.project.ID, fetched.ProjectID)
	assert.Equal(t, f.taskType.ID, fetched.TaskTypeID)
	assert.Equal(t, domain.TaskBooked, fetched.Status)
	assert.Equal(t, 3, fetched.TaskIndex)
	assert.Equal(t, "bring ladder", fetched.Notes)
}

func TestTaskRepo_ListByTaskType_OrderedByIndexThenID(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := seedTaskFixture(t, db)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(f.project.ID, f.taskType.ID, testutil.WithTaskID("t3"), testutil.WithTaskIndex(2))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(f.project.ID, f.taskType.ID, testutil.WithTaskID("t2"), testutil.WithTaskIndex(0))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(f.project.ID, f.taskType.ID, testutil.WithTaskID("t1"), testutil.WithTaskIndex(0))))

	list, err := repo.ListByTaskType(ctx, f.taskType.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"t1", "t2", "t3"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestTaskRepo_NextIndex(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := seedTaskFixture(t, db)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	idx, err := repo.NextIndex(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(f.project.ID, f.taskType.ID, testutil.WithTaskIndex(4))))
	idx, err = repo.NextIndex(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, idx)
}

func TestTaskRepo_ReassignTaskType(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := seedTaskFixture(t, db)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	target := testutil.NewTestTaskType("Inspect")
	require.NoError(t, NewSQLiteTaskTypeRepo(db).Create(ctx, target))

	t1 := testutil.NewTestTask(f.project.ID, f.taskType.ID)
	t2 := testutil.NewTestTask(f.project.ID, f.taskType.ID, testutil.WithTaskIndex(1))
	require.NoError(t, repo.Create(ctx, t1))
	require.NoError(t, repo.Create(ctx, t2))

	n, err := repo.ReassignTaskType(ctx, []string{t1.ID, t2.ID}, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	remaining, err := repo.ListByTaskType(ctx, f.taskType.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestTaskRepo_ListIDsByProjects(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := seedTaskFixture(t, db)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	other := testutil.NewTestProject(f.client.ID, "Fence")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, other))

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(f.project.ID, f.taskType.ID, testutil.WithTaskID("a"))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(other.ID, f.taskType.ID, testutil.WithTaskID("b"))))

	ids, err := repo.ListIDsByProjects(ctx, []string{f.project.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	ids, err = repo.ListIDsByProjects(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTaskRepo_DeleteRestrictedByCalendarEvents(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := seedTaskFixture(t, db)
	tasks := NewSQLiteTaskRepo(db)
	events := NewSQLiteCalendarEventRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask(f.project.ID, f.taskType.ID)
	require.NoError(t, tasks.Create(ctx, task))
	require.NoError(t, events.Create(ctx, testutil.NewTestTaskEvent(f.project.ID, task.ID)))

	_, err := tasks.DeleteByIDs(ctx, []string{task.ID})
	require.Error(t, err, "events must be removed before their task")

	n, err := events.DeleteByTaskIDs(ctx, []string{task.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = tasks.DeleteByIDs(ctx, []string{task.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
