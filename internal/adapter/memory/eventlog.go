// Package memory implements the event store port as per-tenant in-process
// ring buffers. All state is volatile; a restart clears every log.
package memory

import (
	"sync"

	"github.com/pulsefeed/pulsefeed/internal/domain"
	"github.com/pulsefeed/pulsefeed/internal/domain/event"
	"github.com/pulsefeed/pulsefeed/internal/domain/tenant"
)

// EventLog holds one fixed-capacity ring buffer per cataloged tenant.
// The tenant map is built once at construction and never mutated, so lookups
// need no lock; each tenant's buffer has its own mutex, letting appends to
// different tenants proceed in parallel.
type EventLog struct {
	logs map[string]*tenantLog
}

type tenantLog struct {
	mu   sync.Mutex
	buf  []event.Event
	next int // index the next append writes to
	size int
}

// NewEventLog allocates a ring buffer of the given capacity for every tenant
// in the catalog.
func NewEventLog(cat *tenant.Catalog, capacity int) *EventLog {
	if capacity < 1 {
		capacity = 1
	}
	logs := make(map[string]*tenantLog, cat.Len())
	for _, id := range cat.List() {
		logs[id] = &tenantLog{buf: make([]event.Event, capacity)}
	}
	return &EventLog{logs: logs}
}

// Append inserts e as the newest entry for the tenant. When the buffer is
// full the oldest entry is overwritten in the same operation; appends are
// never rejected for capacity.
func (l *EventLog) Append(tenantID string, e event.Event) error {
	tl, ok := l.logs[tenantID]
	if !ok {
		return domain.ErrUnknownTenant
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.buf[tl.next] = e
	tl.next = (tl.next + 1) % len(tl.buf)
	if tl.size < len(tl.buf) {
		tl.size++
	}
	return nil
}

// List returns up to limit events, newest first, as an independent copy.
func (l *EventLog) List(tenantID string, limit int) ([]event.Event, error) {
	tl, ok := l.logs[tenantID]
	if !ok {
		return nil, domain.ErrUnknownTenant
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	n := limit
	if n > tl.size {
		n = tl.size
	}
	if n < 0 {
		n = 0
	}

	out := make([]event.Event, 0, n)
	idx := tl.next - 1
	for range n {
		if idx < 0 {
			idx += len(tl.buf)
		}
		out = append(out, tl.buf[idx])
		idx--
	}
	return out, nil
}

// Count returns the stored event count; zero for unknown tenants.
func (l *EventLog) Count(tenantID string) int {
	tl, ok := l.logs[tenantID]
	if !ok {
		return 0
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.size
}

// Clear resets the tenant's log to empty.
func (l *EventLog) Clear(tenantID string) error {
	tl, ok := l.logs[tenantID]
	if !ok {
		return domain.ErrUnknownTenant
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	clear(tl.buf)
	tl.next = 0
	tl.size = 0
	return nil
}
