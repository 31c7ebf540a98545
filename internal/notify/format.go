package notify

import (
	"strings"
	"time"
	"unicode/utf8"
)

// TruncateWords shortens s to at most max bytes, cutting back to the last
// space so words stay whole, and appends an ellipsis marker. UTF-8 runes are
// never split.
func TruncateWords(s string, max int) string {
	if len(s) <= max {
		return s
	}

	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	cut := s[:max]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ") + "..."
}

func formatPostDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.UTC().Format("2006-01-02")
}
