package driven

import (
	"context"

	"github.com/ericfisherdev/printbroker/internal/domain/model"
)

// JobStore defines the driven port for print job persistence.
type JobStore interface {
	// Create persists a new job. The job ID must already be allocated.
	Create(ctx context.Context, job model.Job) error

	// UpdateStatus overwrites the status of the job with the given ID. Updating
	// an ID that does not exist is not an error.
	UpdateStatus(ctx context.Context, jobID int64, status model.JobStatus) error

	// ListByStatus returns the destination's jobs in the given status ordered
	// by ID.
	ListByStatus(ctx context.Context, destination string, status model.JobStatus) ([]model.Job, error)

	// GetByID returns the destination's job with the given ID, or nil, nil when
	// no such job exists for that destination.
	GetByID(ctx context.Context, destination string, jobID int64) (*model.Job, error)

	// ListFromID returns the destination's jobs with ID >= startID ordered by ID.
	ListFromID(ctx context.Context, destination string, startID int64) ([]model.Job, error)
}
