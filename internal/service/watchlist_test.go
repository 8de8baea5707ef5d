package service

import (
	"context"
	"testing"
	"time"

	"metamarket-api/internal/kvstore"
	"metamarket-api/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWatchlist(t *testing.T) (*WatchlistStore, *kvstore.Bridge, *fakeClock) {
	t.Helper()
	bridge, _ := newTestBridge()
	clock := newFakeClock()
	return NewWatchlistStore(context.Background(), bridge, clock, zap.NewNop()), bridge, clock
}

func TestWatchlist_AddNewCard(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestWatchlist(t)

	before := s.GetWatchlistCount()
	s.AddToWatchlist(ctx, testCard("bew-001", "Blue-Eyes White Dragon"), nil, "")

	assert.True(t, s.IsInWatchlist("bew-001"))
	assert.Equal(t, before+1, s.GetWatchlistCount())

	item := s.Items()[0]
	assert.Equal(t, "bew-001", item.CardID)
	assert.Equal(t, model.PlaceholderUserID, item.UserID)
	assert.Equal(t, "1705312800000", item.ID)
	assert.Equal(t, "2024-01-15T10:00:00.000Z", item.CreatedAt)
	assert.Equal(t, "Blue-Eyes White Dragon", item.Card.Name)
	assert.False(t, item.HasAlert())
}

func TestWatchlist_AddTwiceKeepsOneEntry(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newTestWatchlist(t)
	card := testCard("bew-001", "Blue-Eyes White Dragon")

	s.AddToWatchlist(ctx, card, nil, "")
	first := s.Items()[0]

	clock.Advance(5 * time.Second)
	s.AddToWatchlist(ctx, card, price(30), model.AlertDown)

	items := s.Items()
	require.Len(t, items, 1)
	require.NotNil(t, items[0].AlertPrice)
	assert.Equal(t, 30.0, *items[0].AlertPrice)
	assert.Equal(t, model.AlertDown, items[0].AlertDirection)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, first.CreatedAt, items[0].CreatedAt)
}

func TestWatchlist_ReAddPreservesPosition(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestWatchlist(t)

	s.AddToWatchlist(ctx, testCard("a", "A"), nil, "")
	s.AddToWatchlist(ctx, testCard("b", "B"), nil, "")
	s.AddToWatchlist(ctx, testCard("c", "C"), nil, "")
	s.AddToWatchlist(ctx, testCard("a", "A"), price(12.5), model.AlertUp)

	var order []string
	for _, item := range s.Items() {
		order = append(order, item.CardID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestWatchlist_IDsAreDistinctWithinOneMillisecond(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestWatchlist(t)

	s.AddToWatchlist(ctx, testCard("a", "A"), nil, "")
	s.AddToWatchlist(ctx, testCard("b", "B"), nil, "")

	items := s.Items()
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestWatchlist_RemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestWatchlist(t)
	s.AddToWatchlist(ctx, testCard("a", "A"), price(10), model.AlertUp)
	before := s.Items()

	s.RemoveFromWatchlist(ctx, "does-not-exist")

	assert.Empty(t, cmp.Diff(before, s.Items()))
}

func TestWatchlist_Remove(t *testing.T) {
	ctx := context.Background()
	s, bridge, _ := newTestWatchlist(t)
	s.AddToWatchlist(ctx, testCard("a", "A"), nil, "")
	s.AddToWatchlist(ctx, testCard("b", "B"), nil, "")

	s.RemoveFromWatchlist(ctx, "a")

	assert.False(t, s.IsInWatchlist("a"))
	assert.Equal(t, 1, s.GetWatchlistCount())

	var saved []model.WatchlistItem
	require.True(t, bridge.Load(ctx, kvstore.KeyWatchlist, &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, "b", saved[0].CardID)
}

func TestWatchlist_UpdateAlertThenClear(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestWatchlist(t)
	s.AddToWatchlist(ctx, testCard("a", "A"), nil, "")

	s.UpdateAlertSettings(ctx, "a", price(25.00), model.AlertDown)
	item := s.Items()[0]
	require.NotNil(t, item.AlertPrice)
	assert.Equal(t, 25.0, *item.AlertPrice)
	assert.Equal(t, model.AlertDown, item.AlertDirection)

	s.UpdateAlertSettings(ctx, "a", nil, "")
	item = s.Items()[0]
	assert.Nil(t, item.AlertPrice)
	assert.Empty(t, item.AlertDirection)
}

func TestWatchlist_UpdateAlertDirectionWithoutPriceIsDropped(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestWatchlist(t)
	s.AddToWatchlist(ctx, testCard("a", "A"), price(5), model.AlertUp)

	s.UpdateAlertSettings(ctx, "a", nil, model.AlertDown)

	item := s.Items()[0]
	assert.Nil(t, item.AlertPrice)
	assert.Empty(t, item.AlertDirection)
}

func TestWatchlist_UpdateAlertUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestWatchlist(t)
	s.AddToWatchlist(ctx, testCard("a", "A"), nil, "")

	s.UpdateAlertSettings(ctx, "zzz", price(1), model.AlertUp)

	assert.Equal(t, 1, s.GetWatchlistCount())
	assert.Nil(t, s.Items()[0].AlertPrice)
}

func TestWatchlist_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, bridge, clock := newTestWatchlist(t)
	s.AddToWatchlist(ctx, testCard("a", "A"), price(10), model.AlertUp)
	s.AddToWatchlist(ctx, testCard("b", "B"), nil, "")
	s.AddToWatchlist(ctx, testCard("c", "C"), price(3.25), model.AlertDown)

	reloaded := NewWatchlistStore(ctx, bridge, clock, zap.NewNop())

	if diff := cmp.Diff(s.Items(), reloaded.Items()); diff != "" {
		t.Errorf("reloaded watchlist mismatch (-want +got):\n%s", diff)
	}

	// ids keep increasing after a reload
	reloaded.AddToWatchlist(ctx, testCard("d", "D"), nil, "")
	items := reloaded.Items()
	assert.Greater(t, items[3].ID, items[2].ID)
}

func TestWatchlist_HydrateMalformedStartsEmpty(t *testing.T) {
	ctx := context.Background()
	bridge, repo := newTestBridge()
	require.NoError(t, repo.Set(ctx, kvstore.KeyWatchlist, []byte("not json")))

	s := NewWatchlistStore(ctx, bridge, newFakeClock(), zap.NewNop())

	assert.Equal(t, 0, s.GetWatchlistCount())
}

func TestWatchlist_ItemsAreCopies(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestWatchlist(t)
	s.AddToWatchlist(ctx, testCard("a", "A"), price(10), model.AlertUp)

	items := s.Items()
	*items[0].AlertPrice = 99
	*items[0].Card.Defense = 7
	items[0].CardID = "mutated"

	stored := s.Items()[0]
	assert.Equal(t, 10.0, *stored.AlertPrice)
	assert.Equal(t, 2500, *stored.Card.Defense)
	assert.True(t, s.IsInWatchlist("a"))
}

func TestWatchlist_SnapshotNotPropagated(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestWatchlist(t)
	card := testCard("a", "Original Name")
	s.AddToWatchlist(ctx, card, nil, "")

	card.Name = "Renamed"
	*card.Attack = 1
	s.AddToWatchlist(ctx, card, nil, "")

	stored := s.Items()[0].Card
	assert.Equal(t, "Original Name", stored.Name)
	assert.Equal(t, 3000, *stored.Attack)
}

func TestWatchlist_ResetKeepsStorage(t *testing.T) {
	ctx := context.Background()
	s, bridge, clock := newTestWatchlist(t)
	s.AddToWatchlist(ctx, testCard("a", "A"), nil, "")

	s.Reset()
	assert.Equal(t, 0, s.GetWatchlistCount())

	reloaded := NewWatchlistStore(ctx, bridge, clock, zap.NewNop())
	assert.Equal(t, 1, reloaded.GetWatchlistCount())
}

func TestWatchlist_Scenario(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestWatchlist(t)
	card := testCard("bew-001", "Blue-Eyes White Dragon")

	s.AddToWatchlist(ctx, card, nil, "")
	s.AddToWatchlist(ctx, card, price(30), model.AlertDown)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 30.0, *items[0].AlertPrice)
}

func TestWatchlist_PersistedJSONShape(t *testing.T) {
	ctx := context.Background()
	bridge, repo := newTestBridge()
	s := NewWatchlistStore(ctx, bridge, newFakeClock(), zap.NewNop())
	s.AddToWatchlist(ctx, model.Card{ID: "x", Name: "X"}, price(1.5), model.AlertUp)

	raw, err := repo.Get(ctx, kvstore.KeyWatchlist)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cardId":"x"`)
	assert.Contains(t, string(raw), `"alertPrice":1.5`)
	assert.Contains(t, string(raw), `"alertDirection":"up"`)
	assert.Contains(t, string(raw), `"userId":"current-user"`)
}
