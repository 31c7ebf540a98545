package search

import (
	"context"

	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// Params defines one on-demand search.
type Params struct {
	Keywords     []string `json:"keywords"`
	Location     string   `json:"location,omitempty"`
	JobType      string   `json:"job_type,omitempty"`
	PostedWithin string   `json:"posted_within,omitempty"`
}

// Source fetches postings from one job board. Implementations own all board
// specifics (request shaping, response parsing); the service only sees typed
// jobs.
type Source interface {
	Name() string
	Fetch(ctx context.Context, p Params) ([]models.Job, error)
}
