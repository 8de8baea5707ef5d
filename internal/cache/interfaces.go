package cache

import (
	"context"
	"time"
)

// Cache stores upstream catalog responses for a bounded time.
// MemoryCache serves single-instance deployments, RedisCache shares
// entries between instances.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)

	// GetOrSet retrieves a value or computes and stores it if missing.
	// Concurrent misses on the same key share one call to fn.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fn func() ([]byte, error)) ([]byte, error)

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error

	// Stats reports hit and miss counters plus backend details.
	Stats(ctx context.Context) map[string]interface{}

	Close() error
}

// CacheError is a sentinel error of this package.
type CacheError string

func (e CacheError) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss CacheError = "cache miss"
)

// NopCache caches nothing. Every GetOrSet calls fn.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }

func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NopCache) Delete(context.Context, string) error { return nil }

func (NopCache) Exists(context.Context, string) (bool, error) { return false, nil }

func (NopCache) GetOrSet(_ context.Context, _ string, _ time.Duration, fn func() ([]byte, error)) ([]byte, error) {
	return fn()
}

func (NopCache) Clear(context.Context) error { return nil }

func (NopCache) Stats(context.Context) map[string]interface{} {
	return map[string]interface{}{"type": "none"}
}

func (NopCache) Close() error { return nil }
