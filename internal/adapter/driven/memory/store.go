// Package memory implements the broker's driven ports with mutex-guarded maps.
// Safe for concurrent access. Intended for development and tests; nothing
// survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ericfisherdev/printbroker/internal/domain/model"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// Compile-time interface checks.
var (
	_ driven.CredentialStore = (*Store)(nil)
	_ driven.JobStore        = (*Store)(nil)
	_ driven.SequenceStore   = (*Store)(nil)
)

type credentialKey struct {
	destination string
	password    string
}

// Store holds credentials, jobs and the job ID counter in memory.
type Store struct {
	mu sync.RWMutex

	credentials map[credentialKey]model.Credential
	jobs        map[int64]model.Job

	// nextID is 0 until the first allocation, matching a missing counter record.
	nextID int64
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		credentials: make(map[credentialKey]model.Credential),
		jobs:        make(map[int64]model.Job),
	}
}

// Ping always succeeds for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Credentials
// ──────────────────────────────────────────────────

// Find returns the credential matching both fields, if registered.
func (s *Store) Find(_ context.Context, destination, password string) ([]model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.credentials[credentialKey{destination, password}]
	if !ok {
		return []model.Credential{}, nil
	}
	return []model.Credential{cred}, nil
}

// Add registers a credential.
func (s *Store) Add(_ context.Context, cred model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := credentialKey{cred.Destination, cred.Password}
	if _, exists := s.credentials[key]; exists {
		return driven.ErrCredentialExists
	}
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = time.Now().UTC()
	}
	s.credentials[key] = cred
	return nil
}

// Remove deletes a credential.
func (s *Store) Remove(_ context.Context, destination, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := credentialKey{destination, password}
	if _, exists := s.credentials[key]; !exists {
		return driven.ErrCredentialNotFound
	}
	delete(s.credentials, key)
	return nil
}

// List returns all credentials ordered by destination.
func (s *Store) List(_ context.Context) ([]model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds := make([]model.Credential, 0, len(s.credentials))
	for _, c := range s.credentials {
		creds = append(creds, c)
	}
	sort.Slice(creds, func(i, j int) bool {
		if creds[i].Destination != creds[j].Destination {
			return creds[i].Destination < creds[j].Destination
		}
		return creds[i].Password < creds[j].Password
	})
	return creds, nil
}

// ──────────────────────────────────────────────────
// Sequence
// ──────────────────────────────────────────────────

// NextJobID returns the current counter value and increments it under the
// write lock.
func (s *Store) NextJobID(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextID == 0 {
		s.nextID = 1
	}
	id := s.nextID
	s.nextID++
	return id, nil
}

// ──────────────────────────────────────────────────
// Jobs
// ──────────────────────────────────────────────────

// Create stores a job, replacing any job with the same ID.
func (s *Store) Create(_ context.Context, job model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.ID] = job
	return nil
}

// UpdateStatus sets the status of an existing job. Unknown IDs are ignored.
func (s *Store) UpdateStatus(_ context.Context, jobID int64, status model.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil
	}
	job.Status = status
	s.jobs[jobID] = job
	return nil
}

// ListByStatus returns the destination's jobs in status, ordered by ID.
func (s *Store) ListByStatus(_ context.Context, destination string, status model.JobStatus) ([]model.Job, error) {
	return s.collect(func(j model.Job) bool {
		return j.Destination == destination && j.Status == status
	}), nil
}

// GetByID returns the destination's job with jobID, or nil, nil.
func (s *Store) GetByID(_ context.Context, destination string, jobID int64) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok || job.Destination != destination {
		return nil, nil
	}
	return &job, nil
}

// ListFromID returns the destination's jobs with ID >= startID, ordered by ID.
func (s *Store) ListFromID(_ context.Context, destination string, startID int64) ([]model.Job, error) {
	return s.collect(func(j model.Job) bool {
		return j.Destination == destination && j.ID >= startID
	}), nil
}

func (s *Store) collect(match func(model.Job) bool) []model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]model.Job, 0)
	for _, j := range s.jobs {
		if match(j) {
			jobs = append(jobs, j)
		}
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].ID < jobs[b].ID })
	return jobs
}
