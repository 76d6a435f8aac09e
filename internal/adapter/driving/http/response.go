package httphandler

import (
	"time"

	"github.com/ericfisherdev/printbroker/internal/application"
	"github.com/ericfisherdev/printbroker/internal/domain/model"
)

// lookupVersion is the protocol version printer agents expect in lookup responses.
const lookupVersion = 5.1

// Response messages.
const (
	msgInvalidCredentials = "Invalid password or destination."
	msgInvalidQuery       = "Invalid query parameter."
	msgSubmitted          = "Print job submitted successfully."
	msgSubmitFailed       = "Internal error when creating print job."
	msgQueryFailed        = "Internal error when querying print jobs."
	msgInvalidBody        = "Invalid request body."
)

// messageResponse is the body of most client errors.
type messageResponse struct {
	Message string `json:"message"`
}

// internalErrorResponse is the body of a store failure on a read endpoint.
type internalErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// LookupRequest is the form posted by printer agents polling for work.
type LookupRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// LookupResponse lists the destination's active jobs as parallel arrays.
type LookupResponse struct {
	Pass    bool     `json:"pass"`
	Version float64  `json:"version"`
	IDs     []int64  `json:"ids"`
	Data    []string `json:"data"`
}

// SubmitRequest is the body of a job submission, JSON or form encoded.
type SubmitRequest struct {
	Destination string `form:"destination" json:"destination"`
	Password    string `form:"password" json:"password"`
	Data        string `form:"data" json:"data"`
}

// SubmitResponse is returned for every submission outcome. ID is set on success
// and Error on a store failure.
type SubmitResponse struct {
	ID      int64  `json:"id,omitempty"`
	Pass    bool   `json:"pass"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// UpdateRequest is the form posted by printer agents reporting job status.
// ID is kept as text so a malformed value can be reported as such.
type UpdateRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	ID       string `form:"id" json:"id"`
	Status   string `form:"status" json:"status"`
}

// UpdateResponse reports whether the status was written.
type UpdateResponse struct {
	Pass    bool   `json:"pass"`
	Message string `json:"message,omitempty"`
}

// PrintJobRequest is the query of a single job lookup.
type PrintJobRequest struct {
	JobID       string `form:"jobId"`
	Destination string `form:"destination"`
	Password    string `form:"password"`
}

// JobResponse is the JSON representation of a print job.
type JobResponse struct {
	JobID         int64  `json:"jobId"`
	Destination   string `json:"destination"`
	JobStatus     string `json:"jobStatus"`
	Data          string `json:"data"`
	TimeSubmitted int64  `json:"timeSubmitted,omitempty"`
}

// PrintJobResponse wraps the matching jobs, zero or one.
type PrintJobResponse struct {
	PrintJobs []JobResponse `json:"printJobs"`
}

// JobStatusRequest is the query or form of a status range query.
type JobStatusRequest struct {
	Destination string `form:"destination" json:"destination"`
	Password    string `form:"password" json:"password"`
	StartID     string `form:"startid" json:"startid"`
}

// JobStatusEntryResponse is one row of a status range query.
type JobStatusEntryResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// JobStatusResponse lists job statuses from the requested start ID.
type JobStatusResponse struct {
	Pass   bool                     `json:"pass"`
	Status []JobStatusEntryResponse `json:"status"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Error  string `json:"error,omitempty"`
}

// toJobResponse converts a domain Job to its JSON representation.
func toJobResponse(job model.Job) JobResponse {
	return JobResponse{
		JobID:         job.ID,
		Destination:   job.Destination,
		JobStatus:     string(job.Status),
		Data:          job.Data,
		TimeSubmitted: job.TimeSubmittedMillis(),
	}
}

func toJobStatusEntryResponse(e application.JobStatusEntry) JobStatusEntryResponse {
	return JobStatusEntryResponse{ID: e.ID, Status: string(e.Status)}
}

func toHealthResponse(r application.HealthReport) HealthResponse {
	resp := HealthResponse{
		Status: r.Status,
		Time:   r.Time.UTC().Format(time.RFC3339),
	}
	if r.Err != nil {
		resp.Error = r.Err.Error()
	}
	return resp
}
