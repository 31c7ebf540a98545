package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/jobwatchhq/jobwatch/internal/api/response"
	"github.com/jobwatchhq/jobwatch/internal/search"
	"github.com/jobwatchhq/jobwatch/internal/store"
	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// JobLister defines the store operations the job listing handler depends on.
type JobLister interface {
	FilterJobs(ctx context.Context, filter store.JobFilter) ([]models.Job, error)
}

// NewListJobsHandler returns an http.HandlerFunc for GET /api/v1/jobs.
// Supported query params: keyword, location, job_type, source, posted_within
// (any/24h/7d/30d), limit.
func NewListJobsHandler(s JobLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := store.JobFilter{
			Keyword:  q.Get("keyword"),
			Location: q.Get("location"),
			JobType:  q.Get("job_type"),
			Source:   q.Get("source"),
		}

		if jt := filter.JobType; jt != "" && !models.ValidJobType(jt) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"job_type must be one of Full-time, Part-time, Contract, Remote", nil)
			return
		}

		if window := q.Get("posted_within"); window != "" {
			lookback, err := search.ParseWindow(window)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"posted_within must be one of any, 24h, 7d, 30d", nil)
				return
			}
			if lookback > 0 {
				filter.PostedSince = time.Now().UTC().Add(-lookback)
			}
		}

		if rawLimit := q.Get("limit"); rawLimit != "" {
			limit, err := strconv.Atoi(rawLimit)
			if err != nil || limit <= 0 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"limit must be a positive integer", nil)
				return
			}
			filter.Limit = limit
		}

		jobs, err := s.FilterJobs(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list jobs", nil)
			return
		}
		if jobs == nil {
			jobs = []models.Job{}
		}
		response.JSON(w, jobs)
	}
}
