package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/jobwatchhq/jobwatch/internal/api/middleware"
	"github.com/jobwatchhq/jobwatch/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	CreateAlertHandler http.HandlerFunc
	ListAlertsHandler  http.HandlerFunc
	DeleteAlertHandler http.HandlerFunc

	ListJobsHandler http.HandlerFunc
	SearchHandler   http.HandlerFunc

	ListSavedHandler    http.HandlerFunc
	SaveJobHandler      http.HandlerFunc
	RemoveSavedHandler  http.HandlerFunc
	ListAppliedHandler  http.HandlerFunc
	MarkAppliedHandler  http.HandlerFunc

	CreateKeyHandler http.HandlerFunc
	ListKeysHandler  http.HandlerFunc
	RevokeKeyHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/alerts", orNotImplemented(deps.CreateAlertHandler))
		r.Get("/api/v1/alerts", orNotImplemented(deps.ListAlertsHandler))
		r.Delete("/api/v1/alerts/{alertID}", orNotImplemented(deps.DeleteAlertHandler))

		r.Get("/api/v1/jobs", orNotImplemented(deps.ListJobsHandler))
		r.Post("/api/v1/search", orNotImplemented(deps.SearchHandler))

		r.Get("/api/v1/saved", orNotImplemented(deps.ListSavedHandler))
		r.Post("/api/v1/saved", orNotImplemented(deps.SaveJobHandler))
		r.Delete("/api/v1/saved", orNotImplemented(deps.RemoveSavedHandler))

		r.Get("/api/v1/applied", orNotImplemented(deps.ListAppliedHandler))
		r.Post("/api/v1/applied", orNotImplemented(deps.MarkAppliedHandler))

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope("admin"))

			r.Post("/api/v1/admin/keys", orNotImplemented(deps.CreateKeyHandler))
			r.Get("/api/v1/admin/keys", orNotImplemented(deps.ListKeysHandler))
			r.Delete("/api/v1/admin/keys/{keyID}", orNotImplemented(deps.RevokeKeyHandler))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
