package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jobwatchhq/jobwatch/internal/api/response"
	"github.com/jobwatchhq/jobwatch/internal/search"
	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// Searcher defines the interface the search handler depends on.
type Searcher interface {
	Search(ctx context.Context, p search.Params) ([]models.Job, error)
}

// NewSearchHandler returns an http.HandlerFunc for POST /api/v1/search.
func NewSearchHandler(svc Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Keywords     []string `json:"keywords"`
			Location     string   `json:"location"`
			JobType      string   `json:"job_type"`
			PostedWithin string   `json:"posted_within"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if len(req.Keywords) == 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "keywords is required", nil)
			return
		}
		if req.JobType != "" && !models.ValidJobType(req.JobType) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"job_type must be one of Full-time, Part-time, Contract, Remote", nil)
			return
		}

		jobs, err := svc.Search(r.Context(), search.Params{
			Keywords:     req.Keywords,
			Location:     req.Location,
			JobType:      req.JobType,
			PostedWithin: req.PostedWithin,
		})
		if err != nil {
			if errors.Is(err, search.ErrInvalidWindow) {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"posted_within must be one of 24h, 7d, 30d, any", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Search failed", nil)
			return
		}

		if jobs == nil {
			jobs = []models.Job{}
		}
		response.JSON(w, jobs)
	}
}
