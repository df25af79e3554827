package store

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"

	"github.com/andywolf/envsync/internal/cloud/gcp"
)

// GCPStore backs the remote store with Google Secret Manager.
type GCPStore struct {
	client *gcp.SecretManagerClient
}

// NewGCPStore connects to Secret Manager for the given project. An empty
// projectID is resolved from the environment or the metadata server.
func NewGCPStore(ctx context.Context, projectID string, opts ...option.ClientOption) (*GCPStore, error) {
	client, err := gcp.NewSecretManagerClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &GCPStore{client: client}, nil
}

// Name identifies the backend.
func (s *GCPStore) Name() string { return "gcp" }

// List returns all secret names in the project.
func (s *GCPStore) List(ctx context.Context) ([]string, error) {
	return s.client.ListSecretNames(ctx)
}

// Get retrieves the latest version of a secret.
func (s *GCPStore) Get(ctx context.Context, name string) (string, error) {
	value, err := s.client.FetchSecret(ctx, name)
	if errors.Is(err, gcp.ErrSecretNotFound) {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return value, err
}

// Put writes a new secret version, creating the secret on first write.
func (s *GCPStore) Put(ctx context.Context, name, value string) error {
	return s.client.StoreSecret(ctx, name, value)
}

// Delete removes the secret and all its versions.
func (s *GCPStore) Delete(ctx context.Context, name string) error {
	err := s.client.DeleteSecret(ctx, name)
	if errors.Is(err, gcp.ErrSecretNotFound) {
		return fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return err
}

// Close releases the underlying client.
func (s *GCPStore) Close() error {
	return s.client.Close()
}

var _ Store = (*GCPStore)(nil)
