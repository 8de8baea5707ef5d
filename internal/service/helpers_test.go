package service

import (
	"context"
	"sync"
	"time"

	"metamarket-api/internal/kvstore"
	"metamarket-api/internal/model"
	"metamarket-api/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// fakeClock never blocks; Sleep advances the clock instead.
type fakeClock struct {
	mu       sync.Mutex
	now      time.Time
	slept    time.Duration
	sleepErr error
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sleepErr != nil {
		return c.sleepErr
	}
	c.slept += d
	c.now = c.now.Add(d)
	return ctx.Err()
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBridge() (*kvstore.Bridge, *repository.MemoryKVRepository) {
	repo := repository.NewMemoryKVRepository()
	return kvstore.New(repo, zap.NewNop()), repo
}

func testDemoAccount() *DemoAccount {
	demo, err := NewDemoAccount("demo@example.com", "password", bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return demo
}

func testCard(id, name string) model.Card {
	atk, def := 3000, 2500
	return model.Card{
		ID:         id,
		Name:       name,
		Type:       "Normal Monster",
		Attribute:  "LIGHT",
		Attack:     &atk,
		Defense:    &def,
		Rarity:     "Ultra Rare",
		Set:        "Legend of Blue Eyes White Dragon",
		SetCode:    "LOB-001",
		CardNumber: "001",
		CreatedAt:  "2024-01-01T00:00:00Z",
		UpdatedAt:  "2024-01-01T00:00:00Z",
	}
}

func price(v float64) *float64 { return &v }
