package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/printbroker/internal/domain/model"
)

// Sentinel errors returned by CredentialStore implementations.
var (
	// ErrCredentialExists indicates the destination/password pair is already registered.
	ErrCredentialExists = errors.New("credential already exists")

	// ErrCredentialNotFound indicates the destination/password pair is not registered.
	ErrCredentialNotFound = errors.New("credential not found")
)

// CredentialStore defines the driven port for the printer agent registry.
// Find is the only operation used on the request path; Add, Remove and List
// serve the out-of-band registration tool.
type CredentialStore interface {
	// Find returns every credential whose destination and password both match
	// exactly. An empty slice means no match.
	Find(ctx context.Context, destination, password string) ([]model.Credential, error)

	// Add registers a destination/password pair. Returns ErrCredentialExists if
	// the identical pair is already registered.
	Add(ctx context.Context, cred model.Credential) error

	// Remove deletes a destination/password pair. Returns ErrCredentialNotFound
	// if the pair is not registered.
	Remove(ctx context.Context, destination, password string) error

	// List returns all registered credentials ordered by destination.
	List(ctx context.Context) ([]model.Credential, error)
}
