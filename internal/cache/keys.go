package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func NotifiedSetKey(alertID uuid.UUID) string {
	return fmt.Sprintf("alert:notified:%s", alertID)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}

func SearchResultKey(queryHash string) string {
	return fmt.Sprintf("search:%s", queryHash)
}
