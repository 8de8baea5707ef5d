package service

import (
	"context"
	"sync"
	"time"

	"metamarket-api/internal/kvstore"

	"go.uber.org/zap"
)

// Session groups the stores that belong to one browser profile.
type Session struct {
	ProfileID string
	Watchlist *WatchlistStore
	Auth      *AuthStore
	Cart      *CartStore

	lastSeen time.Time
}

// Registry builds sessions on first use and hands out the same stores for
// every later request of that profile.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	bridge *kvstore.Bridge
	clock  Clock
	auth   AuthOptions
	logger *zap.Logger
}

// NewRegistry creates an empty registry. bridge is the root bridge; each
// session gets its own namespace under it.
func NewRegistry(bridge *kvstore.Bridge, clock Clock, auth AuthOptions, logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		bridge:   bridge,
		clock:    clock,
		auth:     auth,
		logger:   logger.Named("sessions"),
	}
}

// Get returns the session of profileID, hydrating it from storage if it is
// not in memory yet.
func (r *Registry) Get(ctx context.Context, profileID string) *Session {
	r.mu.Lock()
	if s, ok := r.sessions[profileID]; ok {
		s.lastSeen = r.clock.Now()
		r.mu.Unlock()
		return s
	}
	r.mu.Unlock()

	// hydrate outside the lock so a slow backend only stalls this profile
	bridge := r.bridge.Namespace(profileID)
	s := &Session{
		ProfileID: profileID,
		Watchlist: NewWatchlistStore(ctx, bridge, r.clock, r.logger),
		Auth:      NewAuthStore(ctx, bridge, r.clock, r.auth, r.logger),
		Cart:      NewCartStore(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[profileID]; ok {
		existing.lastSeen = r.clock.Now()
		return existing
	}
	s.lastSeen = r.clock.Now()
	r.sessions[profileID] = s
	r.logger.Debug("session created", zap.String("profile_id", profileID))
	return s
}

// EvictIdle drops sessions not used within threshold and returns how many
// were dropped. Their carts are lost; watchlist and user reload on next use.
func (r *Registry) EvictIdle(threshold time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.clock.Now().Add(-threshold)
	evicted := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Count returns the number of sessions held in memory.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Reset drops every in-memory session. Persisted state is kept.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = make(map[string]*Session)
}
