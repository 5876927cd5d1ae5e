package repository

import (
	"context"
	"testing"

	"github.com/jackson-sweet/opsapp-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarEventRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := seedTaskFixture(t, db)
	repo := NewSQLiteCalendarEventRepo(db)
	ctx := context.Background()

	e := testutil.NewTestProjectEvent(f.project.ID)
	require.NoError(t, repo.Create(ctx, e))

	fetched, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.ProjectID)
	assert.Equal(t, f.project.ID, *fetched.ProjectID)
	assert.Nil(t, fetched.TaskID)
	assert.Equal(t, e.StartDate.Unix(), fetched.StartDate.Unix())
}

func TestCalendarEventRepo_ListByProject_ExcludesTaskEvents(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := seedTaskFixture(t, db)
	repo := NewSQLiteCalendarEventRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask(f.project.ID, f.taskType.ID)
	require.NoError(t, NewSQLiteTaskRepo(db).Create(ctx, task))

	require.NoError(t, repo.Create(ctx, testutil.NewTestProjectEvent(f.project.ID)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTaskEvent(f.project.ID, task.ID)))

	projectEvents, err := repo.ListByProject(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Len(t, projectEvents, 1)

	taskEvents, err := repo.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, taskEvents, 1)
}

func TestCalendarEventRepo_DeleteByProjectIDs_IncludesTaskEvents(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := seedTaskFixture(t, db)
	repo := NewSQLiteCalendarEventRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask(f.project.ID, f.taskType.ID)
	require.NoError(t, NewSQLiteTaskRepo(db).Create(ctx, task))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProjectEvent(f.project.ID)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTaskEvent(f.project.ID, task.ID)))

	n, err := repo.DeleteByProjectIDs(ctx, []string{f.project.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteByProjectIDs(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
