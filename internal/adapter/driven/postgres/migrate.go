package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/schema"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies all pending embedded migrations, rendered for the store's
// table names. Applied versions are tracked in "<jobs>_schema_migrations".
func (s *Store) Migrate(ctx context.Context) error {
	rendered, err := schema.Render(migrationsFS, "migrations", s.tables)
	if err != nil {
		return fmt.Errorf("printbroker/postgres: render migrations: %w", err)
	}

	sourceDriver, err := iofs.New(rendered, "migrations")
	if err != nil {
		return fmt.Errorf("printbroker/postgres: create migration source: %w", err)
	}

	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("printbroker/postgres: ping: %w", err)
	}

	dbDriver, err := migratepgx.WithInstance(db, &migratepgx.Config{
		MigrationsTable: s.tables.MigrationsTable(),
	})
	if err != nil {
		return fmt.Errorf("printbroker/postgres: create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "pgx5", dbDriver)
	if err != nil {
		return fmt.Errorf("printbroker/postgres: create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("printbroker/postgres: run migrations: %w", err)
	}

	s.logger.Info("migrations applied", "migrations_table", s.tables.MigrationsTable())
	return nil
}
