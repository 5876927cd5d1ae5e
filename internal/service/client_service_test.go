package service

import (
	"context"
	"testing"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
	"github.com/jackson-sweet/opsapp-sub001/internal/dupcheck"
	"github.com/jackson-sweet/opsapp-sub001/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientService_Create(t *testing.T) {
	obs := &recordingObserver{}
	s := setupServices(t, obs)
	ctx := context.Background()

	c := &domain.Client{Name: "  Acme Builders ", Email: "office@acme.example"}
	require.NoError(t, s.clients.Create(ctx, c))
	assert.NotEmpty(t, c.ID, "UUID should be generated")
	assert.Equal(t, "Acme Builders", c.Name)
	assert.False(t, c.CreatedAt.IsZero())

	fetched, err := s.clients.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "office@acme.example", fetched.Email)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "create-client", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
}

func TestClientService_Create_Invalid(t *testing.T) {
	obs := &recordingObserver{}
	s := setupServices(t, obs)
	ctx := context.Background()

	tests := []struct {
		name   string
		client domain.Client
	}{
		{"empty name", domain.Client{Name: "   "}},
		{"bad email", domain.Client{Name: "Acme", Email: "not-an-email"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.client
			err := s.clients.Create(ctx, &c)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	require.Len(t, obs.events, 2)
	assert.False(t, obs.events[0].Success)
}

func TestClientService_List_Query(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	for _, c := range []*domain.Client{
		{Name: "Acme Builders", Email: "office@acme.example"},
		{Name: "Birch Roofing", PhoneNumber: "555-0101"},
		{Name: "acme north"},
	} {
		require.NoError(t, s.clients.Create(ctx, c))
	}

	all, err := s.clients.List(ctx, ClientFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Acme Builders", all[0].Name)
	assert.Equal(t, "acme north", all[1].Name)

	got, err := s.clients.List(ctx, ClientFilter{Query: "ACME"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.clients.List(ctx, ClientFilter{Query: "0101"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Birch Roofing", got[0].Name)
}

func TestClientService_Update(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	c := &domain.Client{Name: "Acme"}
	require.NoError(t, s.clients.Create(ctx, c))

	c.Notes = "gate code 1234"
	require.NoError(t, s.clients.Update(ctx, c))
	fetched, err := s.clients.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "gate code 1234", fetched.Notes)

	missing := &domain.Client{ID: "missing", Name: "Ghost"}
	require.ErrorIs(t, s.clients.Update(ctx, missing), repository.ErrNotFound)
}

func TestClientService_FindSimilar(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	require.NoError(t, s.clients.Create(ctx, &domain.Client{Name: "Acme Builders"}))
	require.NoError(t, s.clients.Create(ctx, &domain.Client{Name: "Zephyr Decks"}))

	matches, err := s.clients.FindSimilar(ctx, "acme builders")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Acme Builders", matches[0].Candidate.Name)
	assert.Equal(t, dupcheck.ReasonExact, matches[0].Reason)

	matches, err = s.clients.FindSimilar(ctx, "Completely Different")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestClientService_GroupByInitial(t *testing.T) {
	s := setupServices(t)
	clients := []*domain.Client{
		{Name: "acme"},
		{Name: "1st Choice"},
		{Name: "Birch"},
		{Name: "Apex"},
		{Name: "Édith Plumbing"},
		{Name: ""},
	}

	groups := s.clients.GroupByInitial(clients)
	require.Len(t, groups, 4)
	assert.Equal(t, "A", groups[0].Initial)
	assert.Equal(t, []*domain.Client{clients[0], clients[3]}, groups[0].Clients)
	assert.Equal(t, "B", groups[1].Initial)
	assert.Equal(t, "É", groups[2].Initial)
	assert.Equal(t, "#", groups[3].Initial)
	assert.Len(t, groups[3].Clients, 2)

	assert.Empty(t, s.clients.GroupByInitial(nil))
}
