// Package httphandler is the HTTP driving adapter: it binds printer agent and
// submitter requests, calls the job lifecycle service and shapes the JSON
// responses those clients expect.
package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/printbroker/internal/application"
)

// Handler is the HTTP driving adapter that serves the broker API.
type Handler struct {
	jobs   *application.JobService
	health *application.HealthService
	logger *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	jobs *application.JobService,
	health *application.HealthService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		jobs:   jobs,
		health: health,
		logger: logger,
	}
}

// NewRouter creates a gin engine with all routes registered and wrapped with
// request ID, logging and recovery middleware.
func NewRouter(h *Handler, logger *slog.Logger) *gin.Engine {
	r := gin.New()

	// Recovery innermost so panics are caught before logging.
	r.Use(requestIDMiddleware(), loggingMiddleware(logger), recoveryMiddleware(logger))

	r.POST("/lookup", h.Lookup)
	r.POST("/submit", h.Submit)
	r.POST("/update", h.Update)
	r.GET("/printJob", h.PrintJob)
	r.GET("/jobStatus", h.JobStatus)
	r.POST("/jobStatus", h.JobStatus)
	r.GET("/health", h.Health)

	return r
}

// Lookup returns the destination's Active jobs with decoded payloads.
func (h *Handler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidBody})
		return
	}

	result, err := h.jobs.Lookup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, LookupResponse{
		Pass:    true,
		Version: lookupVersion,
		IDs:     result.IDs,
		Data:    result.Data,
	})
}

// Submit enqueues a new job.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, SubmitResponse{Pass: false, Message: msgInvalidBody})
		return
	}

	id, err := h.jobs.Submit(c.Request.Context(), req.Destination, req.Password, req.Data)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, SubmitResponse{ID: id, Pass: true, Message: msgSubmitted})
	case errors.Is(err, application.ErrUnauthorized):
		c.JSON(http.StatusBadRequest, SubmitResponse{Pass: false, Message: msgInvalidCredentials})
	case errors.Is(err, application.ErrMissingData):
		c.JSON(http.StatusBadRequest, SubmitResponse{Pass: false, Message: err.Error()})
	default:
		h.logger.Error("failed to submit print job", "destination", req.Destination, "error", err)
		c.JSON(http.StatusInternalServerError, SubmitResponse{
			Pass:    false,
			Message: msgSubmitFailed,
			Error:   err.Error(),
		})
	}
}

// Update overwrites a job's status. Store failures are reported as pass:false
// with status 200.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidBody})
		return
	}

	jobID, ok := parseID(req.ID)
	if !ok {
		c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidQuery})
		return
	}

	result, err := h.jobs.Update(c.Request.Context(), req.Username, req.Password, jobID, req.Status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, UpdateResponse{Pass: result.Pass, Message: result.Message})
}

// PrintJob returns the full record of one job.
func (h *Handler) PrintJob(c *gin.Context) {
	var req PrintJobRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidQuery})
		return
	}

	jobID, ok := parseID(req.JobID)
	if !ok {
		c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidQuery})
		return
	}

	jobs, err := h.jobs.PrintJob(c.Request.Context(), req.Destination, req.Password, jobID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp := PrintJobResponse{PrintJobs: make([]JobResponse, 0, len(jobs))}
	for _, job := range jobs {
		resp.PrintJobs = append(resp.PrintJobs, toJobResponse(job))
	}

	c.JSON(http.StatusOK, resp)
}

// JobStatus returns the status of every destination job from startid onwards.
func (h *Handler) JobStatus(c *gin.Context) {
	var req JobStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidQuery})
		return
	}

	startID, ok := parseID(req.StartID)
	if !ok {
		c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidQuery})
		return
	}

	entries, err := h.jobs.JobStatus(c.Request.Context(), req.Destination, req.Password, startID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp := JobStatusResponse{Pass: true, Status: make([]JobStatusEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Status = append(resp.Status, toJobStatusEntryResponse(e))
	}

	c.JSON(http.StatusOK, resp)
}

// Health reports whether the broker and its store are up.
func (h *Handler) Health(c *gin.Context) {
	report := h.health.Check(c.Request.Context())

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, toHealthResponse(report))
}

// writeServiceError maps a JobService error to the response printer agents
// expect: authentication failures are 400, store failures 500.
func (h *Handler) writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, application.ErrUnauthorized) {
		c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidCredentials})
		return
	}

	h.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, internalErrorResponse{
		Message: msgQueryFailed,
		Error:   err.Error(),
	})
}

// parseID parses a base-10 job ID. Empty and non-numeric values are malformed.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
