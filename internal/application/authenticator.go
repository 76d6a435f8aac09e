package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/printbroker/internal/domain/port/driven"
)

// Authenticator checks destination/password pairs against the credential
// registry. It is stateless and safe for concurrent use.
type Authenticator struct {
	credentials driven.CredentialStore
	logger      *slog.Logger
}

// NewAuthenticator creates an Authenticator backed by the given credential store.
func NewAuthenticator(credentials driven.CredentialStore, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		credentials: credentials,
		logger:      logger,
	}
}

// Authenticate returns nil when at least one registered credential matches both
// destination and password, and ErrUnauthorized otherwise. Empty inputs are
// rejected without touching the store. Store failures are logged and fail
// closed as ErrUnauthorized.
func (a *Authenticator) Authenticate(ctx context.Context, destination, password string) error {
	if destination == "" || password == "" {
		return ErrUnauthorized
	}

	matches, err := a.credentials.Find(ctx, destination, password)
	if err != nil {
		a.logger.Error("credential lookup failed", "destination", destination, "error", err)
		return ErrUnauthorized
	}

	if len(matches) == 0 {
		a.logger.Debug("credential mismatch", "destination", destination)
		return ErrUnauthorized
	}

	return nil
}
