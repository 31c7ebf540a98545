package notify

import "errors"

var (
	// ErrNotConfigured marks a send attempted without SMTP credentials.
	ErrNotConfigured = errors.New("mail transport not configured")
)
