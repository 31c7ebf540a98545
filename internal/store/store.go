package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jobwatchhq/jobwatch/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	ListJobs(ctx context.Context) ([]models.Job, error)
	FilterJobs(ctx context.Context, filter JobFilter) ([]models.Job, error)
	GetJob(ctx context.Context, url string) (*models.Job, error)
	UpsertJobs(ctx context.Context, jobs []models.Job) (int, error)

	ListAlerts(ctx context.Context) ([]models.Alert, error)
	GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	CreateAlert(ctx context.Context, alert *models.Alert) error
	DeleteAlert(ctx context.Context, id uuid.UUID) error
	UpdateAlertLastNotified(ctx context.Context, id uuid.UUID, at time.Time) error

	SaveJob(ctx context.Context, url string, at time.Time) error
	RemoveSavedJob(ctx context.Context, url string) error
	ListSavedJobs(ctx context.Context) ([]models.SavedJob, error)
	MarkApplied(ctx context.Context, url string, at time.Time) error
	ListAppliedJobs(ctx context.Context) ([]models.AppliedJob, error)

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID) error
}

// JobFilter narrows a corpus listing. Zero values mean "no constraint".
type JobFilter struct {
	Keyword     string
	Location    string
	JobType     string
	Source      string
	PostedSince time.Time
	Limit       int
}
