// Package kvstore persists whole collections as single JSON blobs.
//
// A Bridge loads and saves one value per key. Loading never fails from the
// caller's point of view: an absent key, a backend error and malformed JSON
// all read as "no prior state". Saving overwrites unconditionally, so two
// writers on the same key silently clobber each other.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"metamarket-api/internal/repository"

	"go.uber.org/zap"
)

// Well-known collection keys.
const (
	KeyWatchlist   = "metamarket_watchlist"
	KeyUser        = "metamarket_user"
	KeyTournaments = "metamarket_tournaments"
)

// Bridge is a stateless JSON channel over a KVRepository.
type Bridge struct {
	repo   repository.KVRepository
	prefix string
	logger *zap.Logger
}

// New creates a Bridge over repo.
func New(repo repository.KVRepository, logger *zap.Logger) *Bridge {
	return &Bridge{repo: repo, logger: logger.Named("kvstore")}
}

// Namespace returns a Bridge whose keys are scoped to one profile.
func (b *Bridge) Namespace(profileID string) *Bridge {
	return &Bridge{
		repo:   b.repo,
		prefix: b.prefix + "profile:" + profileID + ":",
		logger: b.logger,
	}
}

func (b *Bridge) fullKey(key string) string {
	return b.prefix + key
}

// Load decodes the value stored under key into dst and reports whether it did.
// When false is returned dst may hold a partial decode and must be discarded.
func (b *Bridge) Load(ctx context.Context, key string, dst interface{}) bool {
	fullKey := b.fullKey(key)

	data, err := b.repo.Get(ctx, fullKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			b.logger.Warn("load failed", zap.String("key", fullKey), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		b.logger.Warn("discarding undecodable value", zap.String("key", fullKey), zap.Error(err))
		return false
	}
	return true
}

// Save serializes value and overwrites whatever is stored under key.
func (b *Bridge) Save(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := b.repo.Set(ctx, b.fullKey(key), data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Remove deletes the value stored under key.
func (b *Bridge) Remove(ctx context.Context, key string) error {
	if err := b.repo.Delete(ctx, b.fullKey(key)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
