package handler

import (
	"context"
	"net/http"

	"github.com/jobwatchhq/jobwatch/internal/api/response"
)

// Pinger is anything that can report liveness of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health.
// It reports the status of the database and the cache individually.
func NewHealthHandler(db, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type healthStatus struct {
			Status   string `json:"status"`
			Database string `json:"database"`
			Cache    string `json:"cache"`
		}

		status := healthStatus{Status: "ok", Database: "ok", Cache: "ok"}
		httpStatus := http.StatusOK

		if err := db.Ping(r.Context()); err != nil {
			status.Status = "degraded"
			status.Database = "unreachable"
			httpStatus = http.StatusServiceUnavailable
		}
		if err := cache.Ping(r.Context()); err != nil {
			status.Status = "degraded"
			status.Cache = "unreachable"
			httpStatus = http.StatusServiceUnavailable
		}

		if httpStatus != http.StatusOK {
			response.Error(w, httpStatus, "SERVICE_UNAVAILABLE", "One or more backing services are unreachable", status)
			return
		}
		response.JSON(w, status)
	}
}
