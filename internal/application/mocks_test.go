package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/ericfisherdev/printbroker/internal/domain/model"
)

// --- Mock implementations ---

type mockCredentialStore struct {
	creds     []model.Credential
	err       error
	findCalls atomic.Int32
}

func (m *mockCredentialStore) Find(_ context.Context, destination, password string) ([]model.Credential, error) {
	m.findCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Credential
	for _, c := range m.creds {
		if c.Destination == destination && c.Password == password {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCredentialStore) Add(_ context.Context, _ model.Credential) error { return nil }
func (m *mockCredentialStore) Remove(_ context.Context, _, _ string) error     { return nil }
func (m *mockCredentialStore) List(_ context.Context) ([]model.Credential, error) {
	return m.creds, nil
}

type mockSequenceStore struct {
	next  int64
	err   error
	calls int
}

func (m *mockSequenceStore) NextJobID(_ context.Context) (int64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	id := m.next
	m.next++
	return id, nil
}

type mockJobStore struct {
	created   []model.Job
	updates   map[int64]model.JobStatus
	listed    []model.Job
	got       *model.Job
	createErr error
	updateErr error
	queryErr  error
}

func (m *mockJobStore) Create(_ context.Context, job model.Job) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, job)
	return nil
}

func (m *mockJobStore) UpdateStatus(_ context.Context, jobID int64, status model.JobStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.updates == nil {
		m.updates = make(map[int64]model.JobStatus)
	}
	m.updates[jobID] = status
	return nil
}

func (m *mockJobStore) ListByStatus(_ context.Context, _ string, _ model.JobStatus) ([]model.Job, error) {
	return m.listed, m.queryErr
}

func (m *mockJobStore) GetByID(_ context.Context, _ string, _ int64) (*model.Job, error) {
	return m.got, m.queryErr
}

func (m *mockJobStore) ListFromID(_ context.Context, _ string, _ int64) ([]model.Job, error) {
	return m.listed, m.queryErr
}

var errStore = errors.New("store unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
