// Package service implements the feed core: event creation and broadcast
// dispatch. Services are constructed once by the composition root and hold
// all process-scoped state explicitly.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pulsefeed/pulsefeed/internal/adapter/otel"
	"github.com/pulsefeed/pulsefeed/internal/bus"
	"github.com/pulsefeed/pulsefeed/internal/domain"
	"github.com/pulsefeed/pulsefeed/internal/domain/event"
	"github.com/pulsefeed/pulsefeed/internal/domain/tenant"
	"github.com/pulsefeed/pulsefeed/internal/port/eventstore"
)

// Feed validates raw input, turns it into stored events, and announces each
// creation on the bus before Create returns.
type Feed struct {
	catalog *tenant.Catalog
	store   eventstore.Store
	bus     *bus.Bus
	metrics *otel.Metrics
	maxLen  int

	// lastTS serializes timestamp issuance so timestamps never go backwards,
	// regardless of how many producers call Create concurrently.
	mu     sync.Mutex
	lastTS time.Time
}

// NewFeed creates the feed service. maxMessageLen bounds the raw message
// length in runes, checked before trimming.
func NewFeed(cat *tenant.Catalog, store eventstore.Store, b *bus.Bus, metrics *otel.Metrics, maxMessageLen int) *Feed {
	return &Feed{
		catalog: cat,
		store:   store,
		bus:     b,
		metrics: metrics,
		maxLen:  maxMessageLen,
	}
}

// Create validates and normalizes raw, stores the resulting event, and
// announces it. The announcement is synchronous: every bus subscriber has
// observed the event before Create returns. The returned event is a copy
// safe for the caller to retain.
func (f *Feed) Create(ctx context.Context, tenantID, raw string) (event.Event, error) {
	if !f.catalog.IsValid(tenantID) {
		return event.Event{}, fmt.Errorf("create event: %w", domain.ErrUnknownTenant)
	}
	if strings.TrimSpace(raw) == "" {
		return event.Event{}, fmt.Errorf("create event: %w", domain.ErrInvalidMessage)
	}
	// Length is checked on the untrimmed input; trimming happens after.
	if utf8.RuneCountInString(raw) > f.maxLen {
		return event.Event{}, fmt.Errorf("create event: %w", domain.ErrMessageTooLong)
	}

	msg := strings.TrimSpace(event.Escape(raw))
	e := event.New(tenantID, msg, f.nextTimestamp())

	if err := f.store.Append(tenantID, e); err != nil {
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}

	f.metrics.EventCreated(ctx, tenantID)
	f.bus.Publish(ctx, bus.Creation{TenantID: tenantID, Event: e})
	return e, nil
}

// nextTimestamp returns the current UTC second, clamped so it never precedes
// a previously issued timestamp.
func (f *Feed) nextTimestamp() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC().Truncate(time.Second)
	if now.Before(f.lastTS) {
		now = f.lastTS
	}
	f.lastTS = now
	return now
}

// Candidate is a prospective message for Validate. A nil Message marks an
// absent field, which is distinct from an empty string.
type Candidate struct {
	Message *string `json:"message"`
}

// ValidationResult collects every applicable validation error.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate is a pure pre-check for Create. Unlike Create it does not stop at
// the first failure: presence, length, and post-trim emptiness are
// independent checks and all of them are evaluated.
func (f *Feed) Validate(c Candidate) ValidationResult {
	errs := make([]string, 0, 2)

	if c.Message == nil {
		errs = append(errs, "message is required")
		return ValidationResult{Valid: false, Errors: errs}
	}

	if utf8.RuneCountInString(*c.Message) > f.maxLen {
		errs = append(errs, fmt.Sprintf("message must be at most %d characters", f.maxLen))
	}
	if strings.TrimSpace(*c.Message) == "" {
		errs = append(errs, "message must not be empty")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// FeedStats aggregates stored event counts across the catalog. Each tenant's
// count is read independently; the snapshot is adequate for monitoring, not
// cross-tenant atomic.
type FeedStats struct {
	TotalEvents int            `json:"total_events"`
	PerTenant   map[string]int `json:"per_tenant"`
}

// Stats returns the current event counts per tenant and in total.
func (f *Feed) Stats() FeedStats {
	s := FeedStats{PerTenant: make(map[string]int, f.catalog.Len())}
	for _, id := range f.catalog.List() {
		n := f.store.Count(id)
		s.PerTenant[id] = n
		s.TotalEvents += n
	}
	return s
}
