package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/memory"
	"github.com/ericfisherdev/printbroker/internal/domain/model"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

func TestStore_NextJobID_StartsAtOne(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	first, err := s.NextJobID(ctx)
	require.NoError(t, err)
	second, err := s.NextJobID(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestStore_NextJobID_Concurrent(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	const n = 200
	ids := make([]int64, n)

	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			id, err := s.NextJobID(ctx)
			ids[i] = id
			return err
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[int64]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	for want := int64(1); want <= n; want++ {
		assert.True(t, seen[want], "missing id %d", want)
	}
}

func TestStore_Credentials(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, model.Credential{Destination: "d1", Password: "p1"}))

	err := s.Add(ctx, model.Credential{Destination: "d1", Password: "p1"})
	require.ErrorIs(t, err, driven.ErrCredentialExists)

	found, err := s.Find(ctx, "d1", "p1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.False(t, found[0].CreatedAt.IsZero())

	found, err = s.Find(ctx, "d1", "wrong")
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, s.Remove(ctx, "d1", "p1"))
	require.ErrorIs(t, s.Remove(ctx, "d1", "p1"), driven.ErrCredentialNotFound)
}

func TestStore_Jobs(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	submitted := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, j := range []model.Job{
		{ID: 3, Destination: "d1", Status: model.JobStatusActive, Data: "c", TimeSubmitted: submitted},
		{ID: 1, Destination: "d1", Status: model.JobStatusActive, Data: "a", TimeSubmitted: submitted},
		{ID: 2, Destination: "d2", Status: model.JobStatusActive, Data: "b", TimeSubmitted: submitted},
	} {
		require.NoError(t, s.Create(ctx, j))
	}

	active, err := s.ListByStatus(ctx, "d1", model.JobStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, int64(1), active[0].ID)
	assert.Equal(t, int64(3), active[1].ID)

	require.NoError(t, s.UpdateStatus(ctx, 1, "Printed"))
	require.NoError(t, s.UpdateStatus(ctx, 99, "Printed"), "unknown id is not an error")

	active, err = s.ListByStatus(ctx, "d1", model.JobStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(3), active[0].ID)

	job, err := s.GetByID(ctx, "d2", 1)
	require.NoError(t, err)
	assert.Nil(t, job, "job belongs to another destination")

	job, err = s.GetByID(ctx, "d1", 1)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, model.JobStatus("Printed"), job.Status)

	from, err := s.ListFromID(ctx, "d1", 2)
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, int64(3), from[0].ID)
}
