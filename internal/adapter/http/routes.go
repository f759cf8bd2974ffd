package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulsefeed/pulsefeed/internal/middleware"
)

// MountRoutes attaches the REST API to r. extra middleware (rate limiting,
// idempotent replay) applies only to the tenant-scoped event routes.
func (h *Handlers) MountRoutes(r chi.Router, extra ...func(http.Handler) http.Handler) {
	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tenants", h.listTenants)
		r.Get("/stats", h.stats)

		r.Route("/events", func(r chi.Router) {
			r.Use(middleware.RequireTenant(h.catalog))
			for _, mw := range extra {
				r.Use(mw)
			}
			r.Post("/", h.createEvent)
			r.Get("/", h.listEvents)
			r.Delete("/", h.clearEvents)
			r.Post("/validate", h.validateMessage)
		})
	})
}
