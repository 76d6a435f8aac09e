package application

import "errors"

// Sentinel errors returned by the job lifecycle services. The HTTP adapter maps
// them to status codes with errors.Is.
var (
	// ErrUnauthorized indicates missing or unregistered destination/password.
	// It deliberately does not say which of the two was wrong.
	ErrUnauthorized = errors.New("invalid password or destination")

	// ErrMissingData indicates a submission without a payload.
	ErrMissingData = errors.New("requires destination and data")

	// ErrAllocation wraps a failure to obtain the next job ID.
	ErrAllocation = errors.New("allocate job id")

	// ErrPersistence wraps a store failure while writing a job.
	ErrPersistence = errors.New("persist job")

	// ErrQuery wraps a store failure while reading jobs.
	ErrQuery = errors.New("query jobs")
)
