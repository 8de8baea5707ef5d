package model

// AlertDirection is the side of the threshold a price alert watches.
type AlertDirection string

const (
	AlertUp   AlertDirection = "up"
	AlertDown AlertDirection = "down"
)

// Valid reports whether d is a known direction.
func (d AlertDirection) Valid() bool {
	return d == AlertUp || d == AlertDown
}

// PlaceholderUserID is stored on every watchlist entry; entries are owned by
// the profile, not by an account.
const PlaceholderUserID = "current-user"

// WatchlistItem is a watched card with an optional price alert.
type WatchlistItem struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	CardID         string         `json:"cardId"`
	Card           Card           `json:"card"`
	AlertPrice     *float64       `json:"alertPrice,omitempty"`
	AlertDirection AlertDirection `json:"alertDirection,omitempty"`
	CreatedAt      string         `json:"createdAt"`
}

// HasAlert reports whether an alert threshold is set.
func (w WatchlistItem) HasAlert() bool {
	return w.AlertPrice != nil
}
