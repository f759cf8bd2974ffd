// Package registry tracks live subscriber handles grouped by tenant.
package registry

import (
	"sync"

	"github.com/pulsefeed/pulsefeed/internal/domain"
	"github.com/pulsefeed/pulsefeed/internal/domain/tenant"
	"github.com/pulsefeed/pulsefeed/internal/port/broadcast"
)

// Registry maps each tenant to its set of live subscribers. A subscriber
// belongs to exactly one tenant for its lifetime; switching tenants means
// reconnecting. Groups are created on first join and released when the last
// member leaves, so an idle tenant costs nothing.
type Registry struct {
	catalog *tenant.Catalog

	mu     sync.RWMutex
	groups map[string]map[broadcast.Subscriber]struct{}
}

// New creates a Registry bound to the given catalog.
func New(cat *tenant.Catalog) *Registry {
	return &Registry{
		catalog: cat,
		groups:  make(map[string]map[broadcast.Subscriber]struct{}),
	}
}

// Join registers sub under tenantID. The subscriber is visible to broadcasts
// as soon as Join returns. Returns domain.ErrUnknownTenant for identifiers
// outside the catalog.
func (r *Registry) Join(tenantID string, sub broadcast.Subscriber) error {
	if !r.catalog.IsValid(tenantID) {
		return domain.ErrUnknownTenant
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[tenantID]
	if !ok {
		g = make(map[broadcast.Subscriber]struct{})
		r.groups[tenantID] = g
	}
	g[sub] = struct{}{}
	return nil
}

// Leave removes sub from tenantID's group. Removing an absent subscriber is
// a no-op, so disconnect paths can call it unconditionally.
func (r *Registry) Leave(tenantID string, sub broadcast.Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[tenantID]
	if !ok {
		return
	}
	delete(g, sub)
	if len(g) == 0 {
		delete(r.groups, tenantID)
	}
}

// MembersOf returns a snapshot of the tenant's current subscribers.
// Later joins and leaves do not show up in the returned slice. An unknown
// or empty tenant yields an empty snapshot, never an error.
func (r *Registry) MembersOf(tenantID string) []broadcast.Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g := r.groups[tenantID]
	out := make([]broadcast.Subscriber, 0, len(g))
	for sub := range g {
		out = append(out, sub)
	}
	return out
}

// Stats reports the total connection count and the per-tenant counts for
// every tenant with at least one subscriber.
func (r *Registry) Stats() (total int, perTenant map[string]int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	perTenant = make(map[string]int, len(r.groups))
	for id, g := range r.groups {
		perTenant[id] = len(g)
		total += len(g)
	}
	return total, perTenant
}
