package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/schema"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SequenceStore = (*SequenceRepo)(nil)

// SequenceRepo is the SQLite implementation of the SequenceStore port interface.
// The counter row is created by the first allocation.
type SequenceRepo struct {
	db        *DB
	nextQuery string
}

// NewSequenceRepo creates a new SequenceRepo over the configured counter table.
func NewSequenceRepo(db *DB, tables schema.Tables) *SequenceRepo {
	t := schema.Quote(tables.Sequence)
	return &SequenceRepo{
		db: db,
		// One statement: insert the counter at 2 (handing out 1) or bump the
		// existing row, returning the pre-increment value either way.
		nextQuery: `INSERT INTO ` + t + ` (id, next_id) VALUES (1, 2)
			ON CONFLICT(id) DO UPDATE SET next_id = next_id + 1
			RETURNING next_id - 1`,
	}
}

// NextJobID atomically allocates the next job ID.
func (r *SequenceRepo) NextJobID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.Writer.QueryRowContext(ctx, r.nextQuery).Scan(&id); err != nil {
		return 0, fmt.Errorf("allocate job id: %w", err)
	}
	return id, nil
}
