package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/schema"
	"github.com/ericfisherdev/printbroker/internal/domain/model"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

func TestCredentialRepo_AddAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, schema.DefaultTables())
	ctx := context.Background()

	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Add(ctx, model.Credential{Destination: "d1", Password: "p1", CreatedAt: createdAt}))

	creds, err := repo.Find(ctx, "d1", "p1")
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "d1", creds[0].Destination)
	assert.Equal(t, "p1", creds[0].Password)
	assert.True(t, createdAt.Equal(creds[0].CreatedAt))
}

func TestCredentialRepo_FindNoMatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, schema.DefaultTables())
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, model.Credential{Destination: "d1", Password: "p1"}))

	tests := []struct {
		name        string
		destination string
		password    string
	}{
		{"wrong password", "d1", "nope"},
		{"wrong destination", "d2", "p1"},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := repo.Find(ctx, tt.destination, tt.password)
			require.NoError(t, err)
			assert.Empty(t, creds)
		})
	}
}

func TestCredentialRepo_AddDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, schema.DefaultTables())
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, model.Credential{Destination: "d1", Password: "p1"}))

	err := repo.Add(ctx, model.Credential{Destination: "d1", Password: "p1"})
	require.ErrorIs(t, err, driven.ErrCredentialExists)

	// Same destination, different password is a separate credential.
	require.NoError(t, repo.Add(ctx, model.Credential{Destination: "d1", Password: "p2"}))
}

func TestCredentialRepo_Remove(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, schema.DefaultTables())
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, model.Credential{Destination: "d1", Password: "p1"}))
	require.NoError(t, repo.Remove(ctx, "d1", "p1"))

	creds, err := repo.Find(ctx, "d1", "p1")
	require.NoError(t, err)
	assert.Empty(t, creds)

	err = repo.Remove(ctx, "d1", "p1")
	require.ErrorIs(t, err, driven.ErrCredentialNotFound)
}

func TestCredentialRepo_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, schema.DefaultTables())
	ctx := context.Background()

	creds, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, creds)

	require.NoError(t, repo.Add(ctx, model.Credential{Destination: "zeta", Password: "z"}))
	require.NoError(t, repo.Add(ctx, model.Credential{Destination: "alpha", Password: "a"}))

	creds, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, "alpha", creds[0].Destination)
	assert.Equal(t, "zeta", creds[1].Destination)
}
