package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRedisKeyPrefix namespaces stored values in a shared Redis.
const DefaultRedisKeyPrefix = "metamarket:kv:"

// RedisKVRepository implements KVRepository on plain Redis strings.
// Values never expire.
type RedisKVRepository struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisKVRepository wraps an already connected client.
func NewRedisKVRepository(client *redis.Client, keyPrefix string, logger *zap.Logger) *RedisKVRepository {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisKeyPrefix
	}
	logger.Info("redis kv store initialized", zap.String("prefix", keyPrefix))
	return &RedisKVRepository{client: client, keyPrefix: keyPrefix, logger: logger}
}

func (r *RedisKVRepository) redisKey(key string) string {
	return r.keyPrefix + key
}

// Get returns the value stored under key.
func (r *RedisKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// Set stores value under key without expiry.
func (r *RedisKVRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *RedisKVRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// GetStats counts keys under the prefix and reports pool usage.
func (r *RedisKVRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var count int64
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	stats["total_keys"] = count

	pool := r.client.PoolStats()
	stats["pool_total_conns"] = pool.TotalConns
	stats["pool_idle_conns"] = pool.IdleConns

	return stats, nil
}

// Close closes the Redis client.
func (r *RedisKVRepository) Close() error {
	return r.client.Close()
}

var _ KVRepository = (*RedisKVRepository)(nil)
