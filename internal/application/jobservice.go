package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/printbroker/internal/domain/model"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// LookupResult lists a destination's active jobs as parallel ID and decoded
// payload slices, the shape printer agents poll for.
type LookupResult struct {
	IDs  []int64
	Data []string
}

// UpdateResult reports whether a status update was written. Message carries
// the store error text when Pass is false.
type UpdateResult struct {
	Pass    bool
	Message string
}

// JobStatusEntry is one row of a job status query.
type JobStatusEntry struct {
	ID     int64
	Status model.JobStatus
}

// JobService orchestrates the print job lifecycle: submission, agent polling,
// status updates and status queries. Every operation authenticates first and
// touches no other store until authentication has succeeded.
type JobService struct {
	auth     *Authenticator
	sequence *SequenceAllocator
	jobs     driven.JobStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewJobService creates a JobService with all required dependencies.
func NewJobService(
	auth *Authenticator,
	sequence *SequenceAllocator,
	jobs driven.JobStore,
	logger *slog.Logger,
) *JobService {
	return &JobService{
		auth:     auth,
		sequence: sequence,
		jobs:     jobs,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit enqueues a new Active job for destination and returns its ID. The
// allocated ID is not reused if persisting the job fails.
func (s *JobService) Submit(ctx context.Context, destination, password, data string) (int64, error) {
	if err := s.auth.Authenticate(ctx, destination, password); err != nil {
		return 0, err
	}

	if data == "" {
		return 0, ErrMissingData
	}

	jobID, err := s.sequence.Allocate(ctx)
	if err != nil {
		return 0, err
	}

	job := model.Job{
		ID:            jobID,
		Destination:   destination,
		Status:        model.JobStatusActive,
		Data:          data,
		TimeSubmitted: s.now(),
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		s.logger.Error("failed to persist print job", "job_id", jobID, "destination", destination, "error", err)
		return 0, fmt.Errorf("%w %d: %w", ErrPersistence, jobID, err)
	}

	s.logger.Info("print job submitted", "job_id", jobID, "destination", destination)
	return jobID, nil
}

// Lookup returns the destination's Active jobs with decoded payloads. No
// matches yields empty, non-nil slices.
func (s *JobService) Lookup(ctx context.Context, destination, password string) (LookupResult, error) {
	if err := s.auth.Authenticate(ctx, destination, password); err != nil {
		return LookupResult{}, err
	}

	jobs, err := s.jobs.ListByStatus(ctx, destination, model.JobStatusActive)
	if err != nil {
		s.logger.Error("failed to list active jobs", "destination", destination, "error", err)
		return LookupResult{}, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	result := LookupResult{
		IDs:  make([]int64, 0, len(jobs)),
		Data: make([]string, 0, len(jobs)),
	}
	for _, job := range jobs {
		decoded, ok := DecodePayload(job.Data)
		if !ok {
			s.logger.Warn("payload is not valid URL encoding, returning raw", "job_id", job.ID)
		}
		result.IDs = append(result.IDs, job.ID)
		result.Data = append(result.Data, decoded)
	}

	return result, nil
}

// Update overwrites the status of jobID. Only authentication failures are
// returned as errors; a store failure is reported through UpdateResult so the
// agent always receives a pass flag.
func (s *JobService) Update(ctx context.Context, destination, password string, jobID int64, status string) (UpdateResult, error) {
	if err := s.auth.Authenticate(ctx, destination, password); err != nil {
		return UpdateResult{}, err
	}

	if err := s.jobs.UpdateStatus(ctx, jobID, model.JobStatus(status)); err != nil {
		s.logger.Error("failed to update job status", "job_id", jobID, "status", status, "error", err)
		return UpdateResult{Pass: false, Message: err.Error()}, nil
	}

	s.logger.Info("job status updated", "job_id", jobID, "destination", destination, "status", status)
	return UpdateResult{Pass: true}, nil
}

// PrintJob returns the destination's job with the given ID as a zero- or
// one-element slice.
func (s *JobService) PrintJob(ctx context.Context, destination, password string, jobID int64) ([]model.Job, error) {
	if err := s.auth.Authenticate(ctx, destination, password); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, destination, jobID)
	if err != nil {
		s.logger.Error("failed to get print job", "job_id", jobID, "destination", destination, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	if job == nil {
		return []model.Job{}, nil
	}

	return []model.Job{*job}, nil
}

// JobStatus returns the ID and status of every destination job with ID >= startID.
func (s *JobService) JobStatus(ctx context.Context, destination, password string, startID int64) ([]JobStatusEntry, error) {
	if err := s.auth.Authenticate(ctx, destination, password); err != nil {
		return nil, err
	}

	jobs, err := s.jobs.ListFromID(ctx, destination, startID)
	if err != nil {
		s.logger.Error("failed to list job statuses", "destination", destination, "start_id", startID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	entries := make([]JobStatusEntry, 0, len(jobs))
	for _, job := range jobs {
		entries = append(entries, JobStatusEntry{ID: job.ID, Status: job.Status})
	}

	return entries, nil
}
