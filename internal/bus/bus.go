// Package bus carries typed event-creation announcements from the feed
// service to its observers.
package bus

import (
	"context"
	"sync"

	"github.com/pulsefeed/pulsefeed/internal/domain/event"
)

// Creation announces one newly stored event.
type Creation struct {
	TenantID string
	Event    event.Event
}

// Handler consumes a creation announcement. Handlers must bound their own
// work; Publish waits for every handler to return.
type Handler func(ctx context.Context, c Creation)

// Bus fans creation announcements out to all subscribed handlers.
// Publish is synchronous: every handler has been invoked and has returned
// before Publish returns, which gives callers a happens-before edge between
// "event stored" and "event observed". Subscription happens during process
// wiring; Publish runs on the hot path.
type Bus struct {
	mu   sync.RWMutex
	subs []Handler
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers h for all future announcements.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, h)
}

// Publish invokes every subscribed handler with c, in subscription order.
func (b *Bus) Publish(ctx context.Context, c Creation) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, h := range subs {
		h(ctx, c)
	}
}
