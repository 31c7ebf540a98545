// Package alert implements the matching core: deciding which corpus jobs
// satisfy a standing alert subscription.
package alert

import (
	"strings"

	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// Matches reports whether job satisfies every gate of the alert: all
// keywords, the optional location and job type filters, and the recency
// boundary. Pure; missing text fields behave as empty strings.
func Matches(a models.Alert, j models.Job) bool {
	return matchesKeywords(a, j) &&
		matchesLocation(a, j) &&
		matchesJobType(a, j) &&
		matchesRecency(a, j)
}

// matchesKeywords requires every keyword to appear case-insensitively in
// the title or the description. Blank keywords are ignored.
func matchesKeywords(a models.Alert, j models.Job) bool {
	title := strings.ToLower(j.Title)
	desc := strings.ToLower(j.Description)

	for _, kw := range a.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if !strings.Contains(title, kw) && !strings.Contains(desc, kw) {
			return false
		}
	}
	return true
}

func matchesLocation(a models.Alert, j models.Job) bool {
	if a.Location == "" {
		return true
	}
	return strings.Contains(strings.ToLower(j.Location), strings.ToLower(a.Location))
}

func matchesJobType(a models.Alert, j models.Job) bool {
	if a.JobType == "" {
		return true
	}
	return strings.Contains(strings.ToLower(j.JobType), strings.ToLower(a.JobType))
}

// matchesRecency gates on the notification boundary: jobs posted at or
// after the alert's creation qualify, and once a notification has been
// delivered only jobs strictly newer than last_notified do.
func matchesRecency(a models.Alert, j models.Job) bool {
	if a.LastNotified != nil {
		return j.DatePosted.After(*a.LastNotified)
	}
	return !j.DatePosted.Before(a.CreatedDate)
}
