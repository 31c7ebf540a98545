package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert is a standing subscription: every scheduler tick it is matched
// against the job corpus and a non-empty match set triggers an email.
//
// ID and CreatedDate are immutable after creation. LastNotified is the only
// field the background tick ever writes: it advances on each successfully
// delivered notification and moves the recency boundary forward so the same
// jobs are not reported twice.
type Alert struct {
	ID           uuid.UUID  `db:"id"            json:"id"`
	Name         string     `db:"name"          json:"name"`
	Keywords     []string   `db:"keywords"      json:"keywords"`
	Location     string     `db:"location"      json:"location,omitempty"`
	JobType      string     `db:"job_type"      json:"job_type,omitempty"`
	Email        string     `db:"email"         json:"email"`
	CreatedDate  time.Time  `db:"created_date"  json:"created_date"`
	LastNotified *time.Time `db:"last_notified" json:"last_notified,omitempty"`
}
