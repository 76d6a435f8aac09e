package model

// JobStatus is the free-form status of a print job. Printer agents may report
// any value; the broker only assigns JobStatusActive itself.
type JobStatus string

const (
	// JobStatusActive marks a job awaiting pickup by its destination's agent.
	JobStatusActive JobStatus = "Active"
)
