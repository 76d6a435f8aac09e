// Package backend opens the store backend selected by configuration and
// exposes it through the driven port interfaces.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/memory"
	"github.com/ericfisherdev/printbroker/internal/adapter/driven/postgres"
	redisstore "github.com/ericfisherdev/printbroker/internal/adapter/driven/redis"
	"github.com/ericfisherdev/printbroker/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/printbroker/internal/config"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// Stores is an opened backend. Close releases every connection it holds.
type Stores struct {
	Credentials driven.CredentialStore
	Jobs        driven.JobStore
	Sequence    driven.SequenceStore

	ping  func(ctx context.Context) error
	close func() error
}

// Ping checks that the backend is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend's connections.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the backend named by cfg.Store, applies pending schema
// migrations where the backend has a schema, and returns its stores.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		return openSQLite(ctx, cfg, logger)
	case config.StorePostgres:
		return openPostgres(ctx, cfg, logger)
	case config.StoreRedis:
		return openRedis(ctx, cfg, logger)
	case config.StoreMemory:
		store := memory.New()
		logger.Warn("using in-memory store, data will not survive a restart")
		return &Stores{
			Credentials: store,
			Jobs:        store,
			Sequence:    store,
			ping:        store.Ping,
			close:       store.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	db, err := sqlite.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := sqlite.RunMigrations(db.Writer, cfg.Tables); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate sqlite database: %w", err), db.Close())
	}
	logger.Info("sqlite database ready", "path", cfg.DBPath)

	return &Stores{
		Credentials: sqlite.NewCredentialRepo(db, cfg.Tables),
		Jobs:        sqlite.NewJobRepo(db, cfg.Tables),
		Sequence:    sqlite.NewSequenceRepo(db, cfg.Tables),
		ping:        db.Ping,
		close:       db.Close,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	store, err := postgres.New(ctx, cfg.PostgresURL,
		postgres.WithLogger(logger),
		postgres.WithTables(cfg.Tables),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate postgres: %w", err), store.Close())
	}
	logger.Info("postgres database ready")

	return &Stores{
		Credentials: store,
		Jobs:        store,
		Sequence:    store,
		ping:        store.Ping,
		close:       store.Close,
	}, nil
}

func openRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	store := redisstore.New(client,
		redisstore.WithLogger(logger),
		redisstore.WithTables(cfg.Tables),
	)

	if err := store.Ping(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("connect redis at %s: %w", cfg.RedisAddr, err), client.Close())
	}
	logger.Info("redis connected", "addr", cfg.RedisAddr, "db", cfg.RedisDB)

	return &Stores{
		Credentials: store,
		Jobs:        store,
		Sequence:    store,
		ping:        store.Ping,
		close:       client.Close,
	}, nil
}
