// Package store abstracts the remote secret store envsync reconciles env
// files against.
package store

import (
	"context"
	"errors"
)

var (
	// ErrSecretNotFound is returned when a secret does not exist remotely.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrStoreUnavailable is returned when the backend cannot be reached
	// or its CLI is not installed.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Store is a remote secret store backend. Failures are reported to the
// caller, never retried here; retry policy belongs to the sync engine's
// operator.
type Store interface {
	// Name identifies the backend ("cli", "gcp").
	Name() string

	// List returns the names of all secrets in the store.
	List(ctx context.Context) ([]string, error)

	// Get retrieves a secret value. Returns ErrSecretNotFound when the
	// name does not exist.
	Get(ctx context.Context, name string) (string, error)

	// Put creates or updates a secret.
	Put(ctx context.Context, name, value string) error

	// Delete removes a secret. Returns ErrSecretNotFound when the name
	// does not exist.
	Delete(ctx context.Context, name string) error

	// Close releases any backend resources.
	Close() error
}
