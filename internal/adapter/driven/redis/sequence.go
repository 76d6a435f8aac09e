package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// nextJobIDScript reads the stored next ID (1 when absent), stores its
// successor and returns the read value.
var nextJobIDScript = goredis.NewScript(`
local v = redis.call('HGET', KEYS[1], 'nextId')
if not v then
  v = 1
else
  v = tonumber(v)
end
redis.call('HSET', KEYS[1], 'nextId', v + 1)
return v
`)

// NextJobID atomically allocates the next job ID.
func (s *Store) NextJobID(ctx context.Context) (int64, error) {
	id, err := nextJobIDScript.Run(ctx, s.client, []string{s.keys.counter()}).Int64()
	if err != nil {
		return 0, fmt.Errorf("printbroker/redis: allocate job id: %w", err)
	}
	return id, nil
}
