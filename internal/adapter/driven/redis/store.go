// Package redis implements the broker's driven ports on Redis. Jobs are
// Hashes indexed by per-destination Sorted Sets scored by job ID, credentials
// are one Hash per destination, and the job ID counter is a Hash field bumped
// by a Lua script.
//
// Usage:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	s := redisstore.New(client)
//	if err := s.Ping(ctx); err != nil { ... }
package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/schema"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// Compile-time interface checks.
var (
	_ driven.CredentialStore = (*Store)(nil)
	_ driven.JobStore        = (*Store)(nil)
	_ driven.SequenceStore   = (*Store)(nil)
)

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithTables namespaces keys by the given table names instead of the defaults.
func WithTables(t schema.Tables) Option {
	return func(s *Store) { s.keys = newKeyspace(t) }
}

// Store implements the credential, job and sequence stores backed by Redis.
type Store struct {
	client redis.Cmdable
	logger *slog.Logger
	keys   keyspace
}

// New creates a new Redis-backed store. The caller owns the Redis client
// lifecycle.
func New(client redis.Cmdable, opts ...Option) *Store {
	s := &Store{
		client: client,
		logger: slog.Default(),
		keys:   newKeyspace(schema.DefaultTables()),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Client returns the underlying Redis client.
func (s *Store) Client() redis.Cmdable { return s.client }

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
