package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jobwatchhq/jobwatch/internal/alert"
	"github.com/jobwatchhq/jobwatch/internal/api/response"
	"github.com/jobwatchhq/jobwatch/internal/store"
	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// AlertStore defines the store operations the alert handlers depend on.
type AlertStore interface {
	CreateAlert(ctx context.Context, a *models.Alert) error
	ListAlerts(ctx context.Context) ([]models.Alert, error)
	DeleteAlert(ctx context.Context, alertID uuid.UUID) error
}

// NewCreateAlertHandler returns an http.HandlerFunc for POST /api/v1/alerts.
func NewCreateAlertHandler(s AlertStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			Keywords string `json:"keywords"`
			Location string `json:"location"`
			JobType  string `json:"job_type"`
			Email    string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		a := &models.Alert{
			ID:          uuid.New(),
			Name:        req.Name,
			Keywords:    alert.ParseKeywords(req.Keywords),
			Location:    req.Location,
			JobType:     req.JobType,
			Email:       req.Email,
			CreatedDate: time.Now().UTC(),
		}

		if err := alert.Validate(*a); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}

		if err := s.CreateAlert(r.Context(), a); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "DUPLICATE", "An alert with this ID already exists", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create alert", nil)
			return
		}

		response.Created(w, a)
	}
}

// NewListAlertsHandler returns an http.HandlerFunc for GET /api/v1/alerts.
func NewListAlertsHandler(s AlertStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alerts, err := s.ListAlerts(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list alerts", nil)
			return
		}
		if alerts == nil {
			alerts = []models.Alert{}
		}
		response.JSON(w, alerts)
	}
}

// NewDeleteAlertHandler returns an http.HandlerFunc for DELETE /api/v1/alerts/{alertID}.
func NewDeleteAlertHandler(s AlertStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alertID, err := uuid.Parse(chi.URLParam(r, "alertID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "alertID must be a valid UUID", nil)
			return
		}

		if err := s.DeleteAlert(r.Context(), alertID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Alert not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete alert", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
