package driven

import "context"

// SequenceStore defines the driven port for the global job ID counter.
type SequenceStore interface {
	// NextJobID atomically reads the counter (1 when it does not exist yet),
	// stores the value plus one, and returns the value read. Implementations
	// must perform this as a single store operation so concurrent callers never
	// observe the same value.
	NextJobID(ctx context.Context) (int64, error)
}
