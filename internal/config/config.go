// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/schema"
)

// Store backends selectable with PRINTBROKER_STORE.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Log output formats selectable with PRINTBROKER_LOG_FORMAT.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	Store      string

	DBPath      string
	PostgresURL string

	RedisAddr     string
	RedisDB       int
	RedisPassword string

	Tables schema.Tables

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a validated Config.
// Optional variables with defaults: PRINTBROKER_LISTEN_ADDR (127.0.0.1:8080),
// PRINTBROKER_STORE (sqlite), PRINTBROKER_DB_PATH (printbroker.db),
// PRINTBROKER_REDIS_ADDR (localhost:6379), PRINTBROKER_REDIS_DB (0),
// PRINTBROKER_PRINT_JOBS_TABLE (print_jobs), PRINTBROKER_NEXT_JOB_ID_TABLE
// (next_job_id), PRINTBROKER_CLIENTS_TABLE (clients), PRINTBROKER_LOG_LEVEL (info),
// PRINTBROKER_LOG_FORMAT (text). PRINTBROKER_POSTGRES_URL is required when the
// store is postgres.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:    envOr("PRINTBROKER_LISTEN_ADDR", "127.0.0.1:8080"),
		Store:         strings.ToLower(envOr("PRINTBROKER_STORE", StoreSQLite)),
		DBPath:        envOr("PRINTBROKER_DB_PATH", "printbroker.db"),
		PostgresURL:   os.Getenv("PRINTBROKER_POSTGRES_URL"),
		RedisAddr:     envOr("PRINTBROKER_REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("PRINTBROKER_REDIS_PASSWORD"),
		Tables: schema.Tables{
			Jobs:     envOr("PRINTBROKER_PRINT_JOBS_TABLE", schema.DefaultJobsTable),
			Sequence: envOr("PRINTBROKER_NEXT_JOB_ID_TABLE", schema.DefaultSequenceTable),
			Clients:  envOr("PRINTBROKER_CLIENTS_TABLE", schema.DefaultClientsTable),
		},
		LogLevel:  slog.LevelInfo,
		LogFormat: strings.ToLower(envOr("PRINTBROKER_LOG_FORMAT", LogFormatText)),
	}

	if v, ok := os.LookupEnv("PRINTBROKER_REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil || db < 0 {
			return nil, fmt.Errorf("PRINTBROKER_REDIS_DB has invalid database number %q", v)
		}
		cfg.RedisDB = db
	}

	if v, ok := os.LookupEnv("PRINTBROKER_LOG_LEVEL"); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("PRINTBROKER_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	switch c.Store {
	case StoreSQLite, StoreRedis, StoreMemory:
	case StorePostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("PRINTBROKER_POSTGRES_URL is required when PRINTBROKER_STORE is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("PRINTBROKER_STORE has unknown backend %q", c.Store))
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("PRINTBROKER_LOG_FORMAT has unknown format %q", c.LogFormat))
	}

	if err := c.Tables.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// envOr returns the value of key, or def when key is unset.
func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
