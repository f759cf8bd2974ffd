// Package eventstore defines the port for the per-tenant bounded event log.
package eventstore

import "github.com/pulsefeed/pulsefeed/internal/domain/event"

// Store is the tenant-partitioned event log. Implementations own the stored
// events exclusively; reads return independent copies.
type Store interface {
	// Append inserts e at the head of the tenant's log, evicting the oldest
	// entries when the log is at capacity. Returns domain.ErrUnknownTenant
	// for identifiers outside the catalog.
	Append(tenantID string, e event.Event) error

	// List returns at most limit events, newest first. A limit larger than
	// the stored count is clamped; limit <= 0 yields an empty slice.
	// Returns domain.ErrUnknownTenant for identifiers outside the catalog.
	List(tenantID string, limit int) ([]event.Event, error)

	// Count returns the number of stored events for the tenant.
	// Unknown tenants count as zero; this read path never fails.
	Count(tenantID string) int

	// Clear resets the tenant's log to empty. Returns domain.ErrUnknownTenant
	// for identifiers outside the catalog.
	Clear(tenantID string) error
}
