package postgres

import (
	"context"
	"fmt"
)

// NextJobID atomically allocates the next job ID. The counter row is created
// by the first call, which returns 1.
func (s *Store) NextJobID(ctx context.Context) (int64, error) {
	var id int64
	if err := s.pool.QueryRow(ctx, s.q.nextJobID).Scan(&id); err != nil {
		return 0, fmt.Errorf("printbroker/postgres: allocate job id: %w", err)
	}
	return id, nil
}
