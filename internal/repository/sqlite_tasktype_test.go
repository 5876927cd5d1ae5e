package repository

import (
	"context"
	"testing"

	"github.com/jackson-sweet/opsapp-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskTypeRepo_CRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskTypeRepo(db)
	ctx := context.Background()

	tt := testutil.NewTestTaskType("Install", testutil.WithTaskTypeColor("#59779F"))
	tt.IsDefault = true
	require.NoError(t, repo.Create(ctx, tt))

	fetched, err := repo.GetByID(ctx, tt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Install", fetched.Display)
	assert.Equal(t, "#59779F", fetched.Color)
	assert.True(t, fetched.IsDefault)

	tt.Display = "Installation"
	tt.IsDefault = false
	require.NoError(t, repo.Update(ctx, tt))
	fetched, err = repo.GetByID(ctx, tt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Installation", fetched.Display)
	assert.False(t, fetched.IsDefault)

	require.NoError(t, repo.Delete(ctx, tt.ID))
	_, err = repo.GetByID(ctx, tt.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskTypeRepo_List_DisplayOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskTypeRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTaskType("Quote", testutil.WithDisplayOrder(2))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTaskType("Work", testutil.WithDisplayOrder(1))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTaskType("Inspect", testutil.WithDisplayOrder(1))))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Inspect", list[0].Display)
	assert.Equal(t, "Work", list[1].Display)
	assert.Equal(t, "Quote", list[2].Display)
}
