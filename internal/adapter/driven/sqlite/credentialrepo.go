package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/printbroker/internal/adapter/driven/schema"
	"github.com/ericfisherdev/printbroker/internal/domain/model"
	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port interface.
type CredentialRepo struct {
	db *DB

	findQuery   string
	insertQuery string
	deleteQuery string
	listQuery   string
}

// NewCredentialRepo creates a new CredentialRepo over the configured clients table.
func NewCredentialRepo(db *DB, tables schema.Tables) *CredentialRepo {
	t := schema.Quote(tables.Clients)
	return &CredentialRepo{
		db:          db,
		findQuery:   `SELECT destination, password, created_at FROM ` + t + ` WHERE destination = ? AND password = ?`,
		insertQuery: `INSERT INTO ` + t + ` (destination, password, created_at) VALUES (?, ?, ?)`,
		deleteQuery: `DELETE FROM ` + t + ` WHERE destination = ? AND password = ?`,
		listQuery:   `SELECT destination, password, created_at FROM ` + t + ` ORDER BY destination, password`,
	}
}

// Find returns every credential matching both destination and password.
func (r *CredentialRepo) Find(ctx context.Context, destination, password string) ([]model.Credential, error) {
	rows, err := r.db.Reader.QueryContext(ctx, r.findQuery, destination, password)
	if err != nil {
		return nil, fmt.Errorf("find credential for %s: %w", destination, err)
	}
	defer rows.Close()

	creds := []model.Credential{}
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		creds = append(creds, *cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}

	return creds, nil
}

// Add registers a destination/password pair.
func (r *CredentialRepo) Add(ctx context.Context, cred model.Credential) error {
	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, r.insertQuery, cred.Destination, cred.Password, createdAt.UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("add credential for %s: %w", cred.Destination, driven.ErrCredentialExists)
		}
		return fmt.Errorf("add credential for %s: %w", cred.Destination, err)
	}
	return nil
}

// Remove deletes a destination/password pair.
func (r *CredentialRepo) Remove(ctx context.Context, destination, password string) error {
	result, err := r.db.Writer.ExecContext(ctx, r.deleteQuery, destination, password)
	if err != nil {
		return fmt.Errorf("remove credential for %s: %w", destination, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("remove credential for %s: %w", destination, driven.ErrCredentialNotFound)
	}
	return nil
}

// List returns all credentials ordered by destination.
func (r *CredentialRepo) List(ctx context.Context) ([]model.Credential, error) {
	rows, err := r.db.Reader.QueryContext(ctx, r.listQuery)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var creds []model.Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		creds = append(creds, *cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}

	return creds, nil
}

func scanCredential(s scanner) (*model.Credential, error) {
	var cred model.Credential
	var createdAt string

	if err := s.Scan(&cred.Destination, &cred.Password, &createdAt); err != nil {
		return nil, err
	}

	var err error
	cred.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &cred, nil
}
