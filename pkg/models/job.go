package models

import "time"

// Sources the scraping side currently knows how to search.
const (
	SourceIndeed   = "Indeed"
	SourceLinkedIn = "LinkedIn"
)

const (
	JobTypeFullTime = "Full-time"
	JobTypePartTime = "Part-time"
	JobTypeContract = "Contract"
	JobTypeRemote   = "Remote"
)

// ValidJobType reports whether s is one of the recognised job type values.
func ValidJobType(s string) bool {
	switch s {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeRemote:
		return true
	}
	return false
}

// Job is a single discovered posting. The URL is the identity key: two
// records with the same URL are the same posting, and a rescrape upserts
// the row in place.
type Job struct {
	URL         string    `db:"url"         json:"url"`
	Title       string    `db:"title"       json:"title"`
	Company     string    `db:"company"     json:"company"`
	Location    string    `db:"location"    json:"location"`
	Description string    `db:"description" json:"description"`
	JobType     string    `db:"job_type"    json:"job_type"`
	Source      string    `db:"source"      json:"source"`
	DatePosted  time.Time `db:"date_posted" json:"date_posted"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
}

// SavedJob is a posting the user bookmarked for later.
type SavedJob struct {
	Job       Job       `json:"job"`
	SavedDate time.Time `json:"saved_date"`
}

// AppliedJob is a posting the user reports having applied to.
type AppliedJob struct {
	Job         Job       `json:"job"`
	AppliedDate time.Time `json:"applied_date"`
}
