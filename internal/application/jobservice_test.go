package application_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/memory"
	"github.com/ericfisherdev/printbroker/internal/application"
	"github.com/ericfisherdev/printbroker/internal/domain/model"
)

// --- Test helpers ---

// newMemoryService wires a JobService over a fresh memory store with d1/p1
// registered.
func newMemoryService(t *testing.T) (*application.JobService, *memory.Store) {
	t.Helper()

	store := memory.New()
	require.NoError(t, store.Add(context.Background(), model.Credential{Destination: "d1", Password: "p1"}))
	require.NoError(t, store.Add(context.Background(), model.Credential{Destination: "d2", Password: "p2"}))

	logger := discardLogger()
	svc := application.NewJobService(
		application.NewAuthenticator(store, logger),
		application.NewSequenceAllocator(store, logger),
		store,
		logger,
	)
	return svc, store
}

// newMockService wires a JobService over mocks with d1/p1 registered.
func newMockService(seq *mockSequenceStore, jobs *mockJobStore) (*application.JobService, *mockCredentialStore) {
	creds := &mockCredentialStore{creds: []model.Credential{{Destination: "d1", Password: "p1"}}}
	logger := discardLogger()
	svc := application.NewJobService(
		application.NewAuthenticator(creds, logger),
		application.NewSequenceAllocator(seq, logger),
		jobs,
		logger,
	)
	return svc, creds
}

// --- Submit ---

func TestJobService_Submit(t *testing.T) {
	seq := &mockSequenceStore{next: 41}
	jobs := &mockJobStore{}
	svc, _ := newMockService(seq, jobs)

	id, err := svc.Submit(context.Background(), "d1", "p1", "A+B")

	require.NoError(t, err)
	assert.Equal(t, int64(41), id)
	require.Len(t, jobs.created, 1)
	created := jobs.created[0]
	assert.Equal(t, int64(41), created.ID)
	assert.Equal(t, "d1", created.Destination)
	assert.Equal(t, model.JobStatusActive, created.Status)
	assert.Equal(t, "A+B", created.Data, "payload is stored as received")
	assert.False(t, created.TimeSubmitted.IsZero())
}

func TestJobService_Submit_Unauthorized(t *testing.T) {
	seq := &mockSequenceStore{next: 1}
	jobs := &mockJobStore{}
	svc, _ := newMockService(seq, jobs)

	_, err := svc.Submit(context.Background(), "d1", "wrong", "A B")

	require.ErrorIs(t, err, application.ErrUnauthorized)
	assert.Zero(t, seq.calls, "no id is allocated before authentication succeeds")
	assert.Empty(t, jobs.created)
}

func TestJobService_Submit_MissingData(t *testing.T) {
	seq := &mockSequenceStore{next: 1}
	jobs := &mockJobStore{}
	svc, _ := newMockService(seq, jobs)

	_, err := svc.Submit(context.Background(), "d1", "p1", "")

	require.ErrorIs(t, err, application.ErrMissingData)
	assert.Zero(t, seq.calls)
}

func TestJobService_Submit_AllocationFailure(t *testing.T) {
	jobs := &mockJobStore{}
	svc, _ := newMockService(&mockSequenceStore{err: errStore}, jobs)

	_, err := svc.Submit(context.Background(), "d1", "p1", "A B")

	require.ErrorIs(t, err, application.ErrAllocation)
	assert.Empty(t, jobs.created, "no job is created when allocation fails")
}

func TestJobService_Submit_PersistenceFailure(t *testing.T) {
	seq := &mockSequenceStore{next: 5}
	svc, _ := newMockService(seq, &mockJobStore{createErr: errStore})

	_, err := svc.Submit(context.Background(), "d1", "p1", "A B")

	require.ErrorIs(t, err, application.ErrPersistence)
	assert.ErrorContains(t, err, "store unavailable")
	assert.Equal(t, int64(6), seq.next, "allocated id is not rolled back")
}

func TestJobService_Submit_ConcurrentIDsAreContiguous(t *testing.T) {
	svc, store := newMemoryService(t)
	ctx := context.Background()

	// Advance the counter so the range does not trivially start at 1.
	for range 3 {
		_, err := store.NextJobID(ctx)
		require.NoError(t, err)
	}
	const start = int64(4)
	const n = 100

	ids := make([]int64, n)
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			id, err := svc.Submit(ctx, "d1", "p1", "job")
			ids[i] = id
			return err
		})
	}
	require.NoError(t, g.Wait())

	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	for i, id := range ids {
		assert.Equal(t, start+int64(i), id)
	}
}

// --- Lookup ---

func TestJobService_Lookup_AfterSubmitAndUpdate(t *testing.T) {
	svc, _ := newMemoryService(t)
	ctx := context.Background()

	id, err := svc.Submit(ctx, "d1", "p1", "A B")
	require.NoError(t, err)

	got, err := svc.Lookup(ctx, "d1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, got.IDs)
	assert.Equal(t, []string{"A B"}, got.Data)

	res, err := svc.Update(ctx, "d1", "p1", id, "Printed")
	require.NoError(t, err)
	assert.True(t, res.Pass)

	got, err = svc.Lookup(ctx, "d1", "p1")
	require.NoError(t, err)
	assert.Empty(t, got.IDs)
	assert.NotNil(t, got.IDs, "empty results are empty slices, not nil")
	assert.NotNil(t, got.Data)
}

func TestJobService_Lookup_DecodesPayloads(t *testing.T) {
	svc, _ := newMemoryService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "d1", "p1", "Hello+World%21+1%2B1")
	require.NoError(t, err)

	got, err := svc.Lookup(ctx, "d1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello World! 1+1"}, got.Data)
}

func TestJobService_Lookup_ScopedToDestination(t *testing.T) {
	svc, _ := newMemoryService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "d1", "p1", "for d1")
	require.NoError(t, err)
	d2ID, err := svc.Submit(ctx, "d2", "p2", "for d2")
	require.NoError(t, err)

	got, err := svc.Lookup(ctx, "d2", "p2")
	require.NoError(t, err)
	assert.Equal(t, []int64{d2ID}, got.IDs)
	assert.Equal(t, []string{"for d2"}, got.Data)
}

func TestJobService_Lookup_Unauthorized(t *testing.T) {
	svc, _ := newMemoryService(t)

	_, err := svc.Lookup(context.Background(), "d1", "p2")

	assert.ErrorIs(t, err, application.ErrUnauthorized)
}

func TestJobService_Lookup_StoreFailure(t *testing.T) {
	svc, _ := newMockService(&mockSequenceStore{}, &mockJobStore{queryErr: errStore})

	_, err := svc.Lookup(context.Background(), "d1", "p1")

	assert.ErrorIs(t, err, application.ErrQuery)
}

// --- Update ---

func TestJobService_Update_NonexistentJobPasses(t *testing.T) {
	svc, _ := newMemoryService(t)

	res, err := svc.Update(context.Background(), "d1", "p1", 9999, "Printed")

	require.NoError(t, err)
	assert.True(t, res.Pass)
	assert.Empty(t, res.Message)
}

func TestJobService_Update_StoreFailureIsNotAnError(t *testing.T) {
	svc, _ := newMockService(&mockSequenceStore{}, &mockJobStore{updateErr: errStore})

	res, err := svc.Update(context.Background(), "d1", "p1", 1, "Printed")

	require.NoError(t, err)
	assert.False(t, res.Pass)
	assert.Equal(t, "store unavailable", res.Message)
}

func TestJobService_Update_Unauthorized(t *testing.T) {
	jobs := &mockJobStore{}
	svc, _ := newMockService(&mockSequenceStore{}, jobs)

	_, err := svc.Update(context.Background(), "", "p1", 1, "Printed")

	require.ErrorIs(t, err, application.ErrUnauthorized)
	assert.Empty(t, jobs.updates, "no write happens before authentication")
}

// --- PrintJob / JobStatus ---

func TestJobService_PrintJob(t *testing.T) {
	svc, _ := newMemoryService(t)
	ctx := context.Background()

	id, err := svc.Submit(ctx, "d1", "p1", "A%20B")
	require.NoError(t, err)

	jobs, err := svc.PrintJob(ctx, "d1", "p1", id)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, id, jobs[0].ID)
	assert.Equal(t, "A%20B", jobs[0].Data, "print job returns the stored payload")

	jobs, err = svc.PrintJob(ctx, "d2", "p2", id)
	require.NoError(t, err)
	assert.Empty(t, jobs, "another destination cannot see the job")
	assert.NotNil(t, jobs)
}

func TestJobService_JobStatus(t *testing.T) {
	svc, _ := newMemoryService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, "d1", "p1", "one")
	require.NoError(t, err)
	second, err := svc.Submit(ctx, "d1", "p1", "two")
	require.NoError(t, err)

	_, err = svc.Update(ctx, "d1", "p1", second, "Printed")
	require.NoError(t, err)

	entries, err := svc.JobStatus(ctx, "d1", "p1", second)
	require.NoError(t, err)
	assert.Equal(t, []application.JobStatusEntry{{ID: second, Status: "Printed"}}, entries)

	entries, err = svc.JobStatus(ctx, "d1", "p1", first)
	require.NoError(t, err)
	assert.Equal(t, []application.JobStatusEntry{
		{ID: first, Status: model.JobStatusActive},
		{ID: second, Status: "Printed"},
	}, entries)

	entries, err = svc.JobStatus(ctx, "d1", "p1", second+100)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJobService_JobStatus_Unauthorized(t *testing.T) {
	svc, _ := newMemoryService(t)

	_, err := svc.JobStatus(context.Background(), "d1", "nope", 1)

	assert.ErrorIs(t, err, application.ErrUnauthorized)
}
