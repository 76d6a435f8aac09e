package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ericfisherdev/printbroker/internal/domain/model"
)

// Create inserts a new job.
func (s *Store) Create(ctx context.Context, job model.Job) error {
	var submitted *int64
	if !job.TimeSubmitted.IsZero() {
		ms := job.TimeSubmittedMillis()
		submitted = &ms
	}

	_, err := s.pool.Exec(ctx, s.q.insertJob,
		job.ID, job.Destination, string(job.Status), job.Data, submitted,
	)
	if err != nil {
		return fmt.Errorf("printbroker/postgres: insert job %d: %w", job.ID, err)
	}
	return nil
}

// UpdateStatus overwrites the job's status. A missing job is not an error.
func (s *Store) UpdateStatus(ctx context.Context, jobID int64, status model.JobStatus) error {
	if _, err := s.pool.Exec(ctx, s.q.updateJobStatus, string(status), jobID); err != nil {
		return fmt.Errorf("printbroker/postgres: update job %d status: %w", jobID, err)
	}
	return nil
}

// ListByStatus returns the destination's jobs in status ordered by ID.
func (s *Store) ListByStatus(ctx context.Context, destination string, status model.JobStatus) ([]model.Job, error) {
	return s.queryJobs(ctx, s.q.jobsByStatus, destination, string(status))
}

// GetByID returns the destination's job with jobID, or nil, nil if absent.
func (s *Store) GetByID(ctx context.Context, destination string, jobID int64) (*model.Job, error) {
	rows, err := s.pool.Query(ctx, s.q.jobByID, destination, jobID)
	if err != nil {
		return nil, fmt.Errorf("printbroker/postgres: get job %d: %w", jobID, err)
	}

	job, err := pgx.CollectExactlyOneRow(rows, scanJob)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("printbroker/postgres: get job %d: %w", jobID, err)
	}
	return &job, nil
}

// ListFromID returns the destination's jobs with ID >= startID ordered by ID.
func (s *Store) ListFromID(ctx context.Context, destination string, startID int64) ([]model.Job, error) {
	return s.queryJobs(ctx, s.q.jobsFromID, destination, startID)
}

func (s *Store) queryJobs(ctx context.Context, query string, args ...any) ([]model.Job, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("printbroker/postgres: query jobs: %w", err)
	}

	jobs, err := pgx.CollectRows(rows, scanJob)
	if err != nil {
		return nil, fmt.Errorf("printbroker/postgres: scan jobs: %w", err)
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	return jobs, nil
}

func scanJob(row pgx.CollectableRow) (model.Job, error) {
	var (
		job       model.Job
		status    string
		submitted *int64
	)
	if err := row.Scan(&job.ID, &job.Destination, &status, &job.Data, &submitted); err != nil {
		return model.Job{}, err
	}

	job.Status = model.JobStatus(status)
	if submitted != nil {
		job.TimeSubmitted = time.UnixMilli(*submitted).UTC()
	}
	return job, nil
}
