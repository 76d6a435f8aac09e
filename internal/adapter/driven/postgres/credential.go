package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ericfisherdev/printbroker/internal/domain/model"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// Find returns every credential matching both destination and password.
func (s *Store) Find(ctx context.Context, destination, password string) ([]model.Credential, error) {
	rows, err := s.pool.Query(ctx, s.q.findCredential, destination, password)
	if err != nil {
		return nil, fmt.Errorf("printbroker/postgres: find credential: %w", err)
	}

	creds, err := pgx.CollectRows(rows, scanCredential)
	if err != nil {
		return nil, fmt.Errorf("printbroker/postgres: find credential: %w", err)
	}
	if creds == nil {
		creds = []model.Credential{}
	}
	return creds, nil
}

// Add registers a destination/password pair.
func (s *Store) Add(ctx context.Context, cred model.Credential) error {
	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, s.q.insertCredential, cred.Destination, cred.Password, createdAt)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("add credential for %s: %w", cred.Destination, driven.ErrCredentialExists)
		}
		return fmt.Errorf("printbroker/postgres: add credential: %w", err)
	}
	return nil
}

// Remove deletes a destination/password pair.
func (s *Store) Remove(ctx context.Context, destination, password string) error {
	tag, err := s.pool.Exec(ctx, s.q.deleteCredential, destination, password)
	if err != nil {
		return fmt.Errorf("printbroker/postgres: remove credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("remove credential for %s: %w", destination, driven.ErrCredentialNotFound)
	}
	return nil
}

// List returns all credentials ordered by destination.
func (s *Store) List(ctx context.Context) ([]model.Credential, error) {
	rows, err := s.pool.Query(ctx, s.q.listCredentials)
	if err != nil {
		return nil, fmt.Errorf("printbroker/postgres: list credentials: %w", err)
	}

	creds, err := pgx.CollectRows(rows, scanCredential)
	if err != nil {
		return nil, fmt.Errorf("printbroker/postgres: list credentials: %w", err)
	}
	return creds, nil
}

func scanCredential(row pgx.CollectableRow) (model.Credential, error) {
	var cred model.Credential
	err := row.Scan(&cred.Destination, &cred.Password, &cred.CreatedAt)
	cred.CreatedAt = cred.CreatedAt.UTC()
	return cred, err
}
