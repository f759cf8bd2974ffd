// Package event defines the immutable Event record distributed by the feed.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single tenant-scoped feed message. Events are created once and
// never mutated; they leave the system only by eviction from the tenant log.
type Event struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// New builds an Event with a fresh random identifier. The message is stored
// as given; validation and escaping happen before this point. Timestamps are
// UTC at second precision so they round-trip through JSON unchanged.
func New(tenantID, message string, ts time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Message:   message,
		Timestamp: ts.UTC().Truncate(time.Second),
	}
}
