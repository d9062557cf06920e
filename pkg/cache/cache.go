// Package cache provides key/value storage for data that is expensive to
// fetch but safe to reuse, such as the list of published releases.
//
// Backends:
//   - [FileCache]: JSON files under the user's cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (no cache directory, tests)
//
// Version mappings are never cached: every resolution re-fetches its source
// documents.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// DefaultTTL is how long release lists stay fresh.
const DefaultTTL = 24 * time.Hour

// Cache is implemented by all storage backends.
type Cache interface {
	// Get returns the stored bytes for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GetJSON decodes the value stored under key into v.
// It reports whether the key was present.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
