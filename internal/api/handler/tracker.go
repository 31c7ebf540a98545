package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jobwatchhq/jobwatch/internal/api/response"
	"github.com/jobwatchhq/jobwatch/internal/store"
	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// TrackerStore defines the store operations the saved/applied handlers
// depend on.
type TrackerStore interface {
	SaveJob(ctx context.Context, url string, at time.Time) error
	RemoveSavedJob(ctx context.Context, url string) error
	ListSavedJobs(ctx context.Context) ([]models.SavedJob, error)
	MarkApplied(ctx context.Context, url string, at time.Time) error
	ListAppliedJobs(ctx context.Context) ([]models.AppliedJob, error)
}

// NewSaveJobHandler returns an http.HandlerFunc for POST /api/v1/saved.
// Saving the same URL twice is idempotent.
func NewSaveJobHandler(s TrackerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, ok := decodeJobURL(w, r)
		if !ok {
			return
		}

		if err := s.SaveJob(r.Context(), url, time.Now().UTC()); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "No job with this URL in the corpus", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save job", nil)
			return
		}

		response.Created(w, map[string]string{"url": url})
	}
}

// NewRemoveSavedHandler returns an http.HandlerFunc for DELETE /api/v1/saved?url=...
func NewRemoveSavedHandler(s TrackerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url := r.URL.Query().Get("url")
		if url == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "url query parameter is required", nil)
			return
		}

		if err := s.RemoveSavedJob(r.Context(), url); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Job is not saved", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove saved job", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// NewListSavedHandler returns an http.HandlerFunc for GET /api/v1/saved.
func NewListSavedHandler(s TrackerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saved, err := s.ListSavedJobs(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list saved jobs", nil)
			return
		}
		if saved == nil {
			saved = []models.SavedJob{}
		}
		response.JSON(w, saved)
	}
}

// NewMarkAppliedHandler returns an http.HandlerFunc for POST /api/v1/applied.
// Marking a job applied also removes it from the saved list.
func NewMarkAppliedHandler(s TrackerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, ok := decodeJobURL(w, r)
		if !ok {
			return
		}

		if err := s.MarkApplied(r.Context(), url, time.Now().UTC()); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "No job with this URL in the corpus", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark job applied", nil)
			return
		}

		response.Created(w, map[string]string{"url": url})
	}
}

// NewListAppliedHandler returns an http.HandlerFunc for GET /api/v1/applied.
func NewListAppliedHandler(s TrackerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applied, err := s.ListAppliedJobs(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list applied jobs", nil)
			return
		}
		if applied == nil {
			applied = []models.AppliedJob{}
		}
		response.JSON(w, applied)
	}
}

func decodeJobURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return "", false
	}
	if req.URL == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "url is required", nil)
		return "", false
	}
	return req.URL, true
}
