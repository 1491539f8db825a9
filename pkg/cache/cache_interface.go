package cache

import (
	"context"
	"time"
)

// Cache is the contract for the shared cache layer. It allows swapping the
// implementation (Redis in production, in-memory in tests).
type Cache interface {
	// Get reads the value stored under key and unmarshals it into dest.
	// Returns (found, error):
	// - found = true: cache hit, dest holds the value
	// - found = false: cache miss, dest is left untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// GetDel atomically reads and removes the value stored under key.
	// Single-use action tokens rely on this to make replay impossible.
	GetDel(ctx context.Context, key string, dest interface{}) (bool, error)

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
