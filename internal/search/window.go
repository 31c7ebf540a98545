package search

import (
	"errors"
	"time"
)

// ErrInvalidWindow marks an unrecognised posted-within value.
var ErrInvalidWindow = errors.New("invalid posted_within value")

// Posted-within windows the search API accepts.
const (
	WindowAny   = ""
	WindowDay   = "24h"
	WindowWeek  = "7d"
	WindowMonth = "30d"
)

// ParseWindow maps a posted-within value to its lookback duration. A zero
// duration means no recency filter.
func ParseWindow(s string) (time.Duration, error) {
	switch s {
	case WindowAny, "any":
		return 0, nil
	case WindowDay:
		return 24 * time.Hour, nil
	case WindowWeek:
		return 7 * 24 * time.Hour, nil
	case WindowMonth:
		return 30 * 24 * time.Hour, nil
	}
	return 0, ErrInvalidWindow
}
