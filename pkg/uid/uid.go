package uid

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// New generates a new unique identifier.
func New() string {
	return uuid.New().String()
}

// FromTime returns the Unix millisecond timestamp of t as a decimal string.
// Watchlist entries use this form for their identifiers.
func FromTime(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
