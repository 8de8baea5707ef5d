package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"metamarket-api/internal/kvstore"
	"metamarket-api/internal/model"
	"metamarket-api/pkg/uid"

	"go.uber.org/zap"
)

// WatchlistStore is a profile's ordered list of watched cards.
//
// Every mutation rewrites the whole collection through the bridge. Writes
// happen under the store lock, so saves reach the backend in mutation order.
type WatchlistStore struct {
	mu     sync.Mutex
	items  []model.WatchlistItem
	lastID int64

	bridge *kvstore.Bridge
	clock  Clock
	logger *zap.Logger
}

// NewWatchlistStore creates a store and hydrates it from the bridge.
// A missing or unreadable collection starts the store empty.
func NewWatchlistStore(ctx context.Context, bridge *kvstore.Bridge, clock Clock, logger *zap.Logger) *WatchlistStore {
	s := &WatchlistStore{
		bridge: bridge,
		clock:  clock,
		logger: logger.Named("watchlist"),
	}

	var saved []model.WatchlistItem
	if bridge.Load(ctx, kvstore.KeyWatchlist, &saved) {
		s.items = saved
	}
	for _, item := range s.items {
		if id, err := strconv.ParseInt(item.ID, 10, 64); err == nil && id > s.lastID {
			s.lastID = id
		}
	}
	return s
}

// AddToWatchlist watches card. If the card is already watched only its alert
// settings change; position and creation time are kept.
func (s *WatchlistStore) AddToWatchlist(ctx context.Context, card model.Card, alertPrice *float64, alertDirection model.AlertDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	price, direction := normalizeAlert(alertPrice, alertDirection)

	if i := s.indexOf(card.ID); i >= 0 {
		s.items[i].AlertPrice = price
		s.items[i].AlertDirection = direction
	} else {
		now := s.clock.Now()
		s.items = append(s.items, model.WatchlistItem{
			ID:             s.nextID(now.UnixMilli()),
			UserID:         model.PlaceholderUserID,
			CardID:         card.ID,
			Card:           card.Clone(),
			AlertPrice:     price,
			AlertDirection: direction,
			CreatedAt:      formatTimestamp(now),
		})
	}
	s.persist(ctx)
}

// RemoveFromWatchlist drops every entry for cardID. Absent ids are a no-op.
func (s *WatchlistStore) RemoveFromWatchlist(ctx context.Context, cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.CardID != cardID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.persist(ctx)
}

// IsInWatchlist reports whether cardID is watched.
func (s *WatchlistStore) IsInWatchlist(cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.indexOf(cardID) >= 0
}

// UpdateAlertSettings replaces the alert of a watched card. A nil price
// clears both alert fields. Unknown ids are a no-op.
func (s *WatchlistStore) UpdateAlertSettings(ctx context.Context, cardID string, alertPrice *float64, alertDirection model.AlertDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	price, direction := normalizeAlert(alertPrice, alertDirection)
	for i := range s.items {
		if s.items[i].CardID == cardID {
			s.items[i].AlertPrice = price
			s.items[i].AlertDirection = direction
		}
	}
	s.persist(ctx)
}

// GetWatchlistCount returns the number of watched cards.
func (s *WatchlistStore) GetWatchlistCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Items returns a copy of the watchlist, oldest first.
func (s *WatchlistStore) Items() []model.WatchlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.WatchlistItem, len(s.items))
	for i, item := range s.items {
		out[i] = item
		out[i].Card = item.Card.Clone()
		if item.AlertPrice != nil {
			price := *item.AlertPrice
			out[i].AlertPrice = &price
		}
	}
	return out
}

// Reset empties the in-memory list without touching storage.
func (s *WatchlistStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.lastID = 0
}

func (s *WatchlistStore) indexOf(cardID string) int {
	for i, item := range s.items {
		if item.CardID == cardID {
			return i
		}
	}
	return -1
}

// nextID derives an id from the creation time, bumped past the last issued
// id so two adds within one millisecond stay distinct.
func (s *WatchlistStore) nextID(millis int64) string {
	if millis <= s.lastID {
		millis = s.lastID + 1
	}
	s.lastID = millis
	return uid.FromTime(time.UnixMilli(millis))
}

func (s *WatchlistStore) persist(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []model.WatchlistItem{}
	}
	if err := s.bridge.Save(ctx, kvstore.KeyWatchlist, items); err != nil {
		s.logger.Error("failed to save watchlist", zap.Error(err))
	}
}

// normalizeAlert drops the direction when no price is given.
func normalizeAlert(price *float64, direction model.AlertDirection) (*float64, model.AlertDirection) {
	if price == nil {
		return nil, ""
	}
	p := *price
	return &p, direction
}
