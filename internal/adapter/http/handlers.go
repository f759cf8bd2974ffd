package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pulsefeed/pulsefeed/internal/domain/tenant"
	"github.com/pulsefeed/pulsefeed/internal/middleware"
	"github.com/pulsefeed/pulsefeed/internal/port/eventstore"
	"github.com/pulsefeed/pulsefeed/internal/registry"
	"github.com/pulsefeed/pulsefeed/internal/service"
)

const maxBodyBytes = 64 * 1024

// Handlers bundles the REST endpoints over the feed service.
type Handlers struct {
	catalog      *tenant.Catalog
	feed         *service.Feed
	store        eventstore.Store
	reg          *registry.Registry
	defaultLimit int
	maxLimit     int
}

// NewHandlers creates the handler set. defaultLimit applies when a list
// request carries no limit parameter; maxLimit caps what a client may ask for.
func NewHandlers(cat *tenant.Catalog, feed *service.Feed, store eventstore.Store, reg *registry.Registry, defaultLimit, maxLimit int) *Handlers {
	return &Handlers{
		catalog:      cat,
		feed:         feed,
		store:        store,
		reg:          reg,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// listTenants handles GET /api/tenants.
func (h *Handlers) listTenants(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tenants": h.catalog.List()})
}

type createEventRequest struct {
	Message string `json:"message"`
}

// createEvent handles POST /api/events. The tenant comes from the request
// context set by the tenant middleware.
func (h *Handlers) createEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[createEventRequest](w, r, maxBodyBytes)
	if !ok {
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	e, err := h.feed.Create(r.Context(), tenantID, req.Message)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// listEvents handles GET /api/events?limit=N, newest first.
func (h *Handlers) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > h.maxLimit {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be an integer between 1 and %d", h.maxLimit))
			return
		}
		limit = n
	}

	tenantID := middleware.TenantFromContext(r.Context())
	events, err := h.store.List(tenantID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

// validateMessage handles POST /api/events/validate. It always answers 200;
// the verdict is in the body.
func (h *Handlers) validateMessage(w http.ResponseWriter, r *http.Request) {
	c, ok := readJSON[service.Candidate](w, r, maxBodyBytes)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.feed.Validate(c))
}

// clearEvents handles DELETE /api/events for the request's tenant.
func (h *Handlers) clearEvents(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFromContext(r.Context())
	if err := h.store.Clear(tenantID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statsResponse struct {
	Events      service.FeedStats `json:"events"`
	Connections connectionStats   `json:"connections"`
}

type connectionStats struct {
	Total     int            `json:"total"`
	PerTenant map[string]int `json:"per_tenant"`
}

// stats handles GET /api/stats.
func (h *Handlers) stats(w http.ResponseWriter, _ *http.Request) {
	total, perTenant := h.reg.Stats()
	writeJSON(w, http.StatusOK, statsResponse{
		Events:      h.feed.Stats(),
		Connections: connectionStats{Total: total, PerTenant: perTenant},
	})
}

// health handles GET /health.
func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
