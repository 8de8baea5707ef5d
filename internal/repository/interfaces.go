package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// KVRepository stores opaque values under string keys.
// Set overwrites unconditionally; there is no versioning or compare-and-swap.
type KVRepository interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// GetStats returns backend statistics for the admin endpoint.
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Close releases the backend connection.
	Close() error
}
