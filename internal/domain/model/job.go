package model

import "time"

// Job is one unit of print work addressed to a destination.
type Job struct {
	ID            int64
	Destination   string
	Status        JobStatus
	Data          string    // URL-encoded payload, stored as received
	TimeSubmitted time.Time // zero when the record predates submission timestamps
}

// IsActive reports whether the job is still waiting for its printer agent.
func (j Job) IsActive() bool {
	return j.Status == JobStatusActive
}

// TimeSubmittedMillis returns the submission time as epoch milliseconds, or 0
// when unknown.
func (j Job) TimeSubmittedMillis() int64 {
	if j.TimeSubmitted.IsZero() {
		return 0
	}
	return j.TimeSubmitted.UnixMilli()
}
