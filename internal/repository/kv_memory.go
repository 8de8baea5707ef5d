package repository

import (
	"context"
	"sync"
)

// MemoryKVRepository is an in-process KVRepository for development and tests.
type MemoryKVRepository struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryKVRepository creates an empty in-memory store.
func NewMemoryKVRepository() *MemoryKVRepository {
	return &MemoryKVRepository{entries: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (r *MemoryKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// Set stores a copy of value under key.
func (r *MemoryKVRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	r.entries[key] = valueCopy
	return nil
}

// Delete removes key.
func (r *MemoryKVRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}

// GetStats returns the number of stored keys.
func (r *MemoryKVRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[string]interface{}{"total_keys": int64(len(r.entries))}, nil
}

// Clear removes every key, mirroring an explicit storage wipe.
func (r *MemoryKVRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string][]byte)
}

// Close is a no-op.
func (r *MemoryKVRepository) Close() error {
	return nil
}

var _ KVRepository = (*MemoryKVRepository)(nil)
