package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/schema"
	"github.com/ericfisherdev/printbroker/internal/domain/model"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.JobStore = (*JobRepo)(nil)

const jobColumns = `job_id, destination, job_status, data, time_submitted`

// JobRepo is the SQLite implementation of the JobStore port interface.
type JobRepo struct {
	db *DB

	insertQuery       string
	updateStatusQuery string
	byStatusQuery     string
	byIDQuery         string
	fromIDQuery       string
}

// NewJobRepo creates a new JobRepo over the configured jobs table.
func NewJobRepo(db *DB, tables schema.Tables) *JobRepo {
	t := schema.Quote(tables.Jobs)
	return &JobRepo{
		db:                db,
		insertQuery:       `INSERT INTO ` + t + ` (` + jobColumns + `) VALUES (?, ?, ?, ?, ?)`,
		updateStatusQuery: `UPDATE ` + t + ` SET job_status = ? WHERE job_id = ?`,
		byStatusQuery:     `SELECT ` + jobColumns + ` FROM ` + t + ` WHERE destination = ? AND job_status = ? ORDER BY job_id`,
		byIDQuery:         `SELECT ` + jobColumns + ` FROM ` + t + ` WHERE destination = ? AND job_id = ?`,
		fromIDQuery:       `SELECT ` + jobColumns + ` FROM ` + t + ` WHERE destination = ? AND job_id >= ? ORDER BY job_id`,
	}
}

// Create inserts a new job.
func (r *JobRepo) Create(ctx context.Context, job model.Job) error {
	_, err := r.db.Writer.ExecContext(ctx, r.insertQuery,
		job.ID, job.Destination, string(job.Status), job.Data, timeToMillis(job),
	)
	if err != nil {
		return fmt.Errorf("insert job %d: %w", job.ID, err)
	}
	return nil
}

// UpdateStatus overwrites the job's status. A missing job affects no rows and
// is not an error.
func (r *JobRepo) UpdateStatus(ctx context.Context, jobID int64, status model.JobStatus) error {
	if _, err := r.db.Writer.ExecContext(ctx, r.updateStatusQuery, string(status), jobID); err != nil {
		return fmt.Errorf("update job %d status: %w", jobID, err)
	}
	return nil
}

// ListByStatus returns the destination's jobs in status ordered by ID.
func (r *JobRepo) ListByStatus(ctx context.Context, destination string, status model.JobStatus) ([]model.Job, error) {
	jobs, err := r.queryJobs(ctx, r.byStatusQuery, destination, string(status))
	if err != nil {
		return nil, fmt.Errorf("list %s jobs for %s: %w", status, destination, err)
	}
	return jobs, nil
}

// GetByID returns the destination's job with jobID, or nil, nil if absent.
func (r *JobRepo) GetByID(ctx context.Context, destination string, jobID int64) (*model.Job, error) {
	job, err := scanJob(r.db.Reader.QueryRowContext(ctx, r.byIDQuery, destination, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %d for %s: %w", jobID, destination, err)
	}
	return job, nil
}

// ListFromID returns the destination's jobs with ID >= startID ordered by ID.
func (r *JobRepo) ListFromID(ctx context.Context, destination string, startID int64) ([]model.Job, error) {
	jobs, err := r.queryJobs(ctx, r.fromIDQuery, destination, startID)
	if err != nil {
		return nil, fmt.Errorf("list jobs from %d for %s: %w", startID, destination, err)
	}
	return jobs, nil
}

func (r *JobRepo) queryJobs(ctx context.Context, query string, args ...any) ([]model.Job, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return jobs, nil
}

func scanJob(s scanner) (*model.Job, error) {
	var job model.Job
	var status string
	var submitted sql.NullInt64

	if err := s.Scan(&job.ID, &job.Destination, &status, &job.Data, &submitted); err != nil {
		return nil, err
	}

	job.Status = model.JobStatus(status)
	job.TimeSubmitted = millisToTime(submitted)
	return &job, nil
}
