package alert

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/jobwatchhq/jobwatch/pkg/models"
)

var (
	ErrNameRequired  = errors.New("alert name is required")
	ErrNoKeywords    = errors.New("alert requires at least one keyword")
	ErrEmailRequired = errors.New("alert email is required")
	ErrInvalidEmail  = errors.New("alert email is not a valid address")
	ErrInvalidType   = errors.New("alert job type is not recognised")
)

// ParseKeywords splits comma-separated keyword text into a trimmed list,
// dropping empty segments. `"go,  backend, ,grpc"` becomes
// ["go" "backend" "grpc"].
func ParseKeywords(text string) []string {
	parts := strings.Split(text, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return keywords
}

// Validate rejects alerts that would be meaningless to evaluate or
// impossible to deliver. Called at the creation boundary so the matching
// path never sees a keywordless or address-less alert.
func Validate(a models.Alert) error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrNameRequired
	}

	hasKeyword := false
	for _, kw := range a.Keywords {
		if strings.TrimSpace(kw) != "" {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return ErrNoKeywords
	}

	if a.Email == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return ErrInvalidEmail
	}

	if a.JobType != "" && !models.ValidJobType(a.JobType) {
		return ErrInvalidType
	}

	return nil
}
