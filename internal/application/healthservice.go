package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// Health statuses reported by HealthService.
const (
	HealthOK          = "ok"
	HealthUnavailable = "unavailable"
)

// HealthReport is the result of a health check.
type HealthReport struct {
	Status string
	Time   time.Time
	Err    error
}

// Healthy reports whether the store answered.
func (r HealthReport) Healthy() bool { return r.Err == nil }

// HealthService checks that the job store backend is reachable.
type HealthService struct {
	store   driven.Pinger
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewHealthService creates a new HealthService. A nil store always reports ok.
func NewHealthService(store driven.Pinger, logger *slog.Logger) *HealthService {
	return &HealthService{
		store:   store,
		timeout: 2 * time.Second,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Check pings the store with a short timeout.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	report := HealthReport{Status: HealthOK, Time: s.now()}
	if s.store == nil {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("store health check failed", "error", err)
		report.Status = HealthUnavailable
		report.Err = err
	}
	return report
}
