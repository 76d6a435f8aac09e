package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// SequenceAllocator hands out globally unique, increasing job IDs. Atomicity is
// delegated to the SequenceStore, which performs the increment-and-return in a
// single store operation.
type SequenceAllocator struct {
	store  driven.SequenceStore
	logger *slog.Logger
}

// NewSequenceAllocator creates a SequenceAllocator over the given store.
func NewSequenceAllocator(store driven.SequenceStore, logger *slog.Logger) *SequenceAllocator {
	return &SequenceAllocator{
		store:  store,
		logger: logger,
	}
}

// Allocate returns the next job ID. Errors wrap ErrAllocation.
func (s *SequenceAllocator) Allocate(ctx context.Context) (int64, error) {
	id, err := s.store.NextJobID(ctx)
	if err != nil {
		s.logger.Error("job id allocation failed", "error", err)
		return 0, fmt.Errorf("%w: %w", ErrAllocation, err)
	}

	if id < 1 {
		s.logger.Error("job id allocation returned invalid id", "id", id)
		return 0, fmt.Errorf("%w: counter returned %d", ErrAllocation, id)
	}

	return id, nil
}
