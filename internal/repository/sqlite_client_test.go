package repository

import (
	"context"
	"testing"

	"github.com/jackson-sweet/opsapp-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)
	ctx := context.Background()

	c := testutil.NewTestClient("Acme Builders", testutil.WithClientEmail("ops@acme.test"))
	require.NoError(t, repo.Create(ctx, c))

	fetched, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Builders", fetched.Name)
	assert.Equal(t, "ops@acme.test", fetched.Email)
	assert.Equal(t, c.CreatedAt.Unix(), fetched.CreatedAt.Unix())
}

func TestClientRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientRepo_List_OrderedByName(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)
	ctx := context.Background()

	for _, name := range []string{"zenith", "Alpha", "beta"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestClient(name)))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "beta", list[1].Name)
	assert.Equal(t, "zenith", list[2].Name)
}

func TestClientRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)
	ctx := context.Background()

	c := testutil.NewTestClient("Old Name")
	require.NoError(t, repo.Create(ctx, c))

	c.Name = "New Name"
	c.Notes = "gate code 1234"
	require.NoError(t, repo.Update(ctx, c))

	fetched, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", fetched.Name)
	assert.Equal(t, "gate code 1234", fetched.Notes)
}

func TestClientRepo_Delete_MissingIsNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)

	err := repo.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientRepo_Delete_RestrictedByProjects(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	clients := NewSQLiteClientRepo(db)
	projects := NewSQLiteProjectRepo(db)

	c := testutil.NewTestClient("Holder")
	require.NoError(t, clients.Create(ctx, c))
	require.NoError(t, projects.Create(ctx, testutil.NewTestProject(c.ID, "Deck")))

	err := clients.Delete(ctx, c.ID)
	require.Error(t, err, "client with projects must not be deletable")

	_, err = clients.GetByID(ctx, c.ID)
	assert.NoError(t, err)
}
