package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pulsefeed/pulsefeed/internal/adapter/otel"
	"github.com/pulsefeed/pulsefeed/internal/bus"
	"github.com/pulsefeed/pulsefeed/internal/registry"
)

// Dispatcher pushes each announced event to every subscriber currently
// registered under the event's tenant. Deliveries are isolated: one slow or
// failing subscriber cannot block or abort the others, and failures are
// logged, never propagated back to the creator.
type Dispatcher struct {
	reg     *registry.Registry
	metrics *otel.Metrics
	timeout time.Duration
}

// NewDispatcher creates a dispatcher. timeout bounds each per-subscriber
// delivery.
func NewDispatcher(reg *registry.Registry, metrics *otel.Metrics, timeout time.Duration) *Dispatcher {
	return &Dispatcher{reg: reg, metrics: metrics, timeout: timeout}
}

// Start subscribes the dispatcher to creation announcements. Called once
// during process wiring.
func (d *Dispatcher) Start(b *bus.Bus) {
	b.Subscribe(d.dispatch)
}

// dispatch fans one event out to the tenant's current members. It works from
// a registry snapshot and holds no registry or store lock while writing, so
// deliveries never block new joins or new event creation. Broadcasting to a
// tenant with no members is a no-op.
func (d *Dispatcher) dispatch(ctx context.Context, c bus.Creation) {
	members := d.reg.MembersOf(c.TenantID)
	if len(members) == 0 {
		return
	}

	var g errgroup.Group
	for _, sub := range members {
		g.Go(func() error {
			dctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()

			if err := sub.Deliver(dctx, c.Event); err != nil {
				d.metrics.DeliveryFailed(ctx, c.TenantID)
				slog.Warn("broadcast delivery failed",
					"tenant", c.TenantID,
					"event_id", c.Event.ID,
					"error", err,
				)
				return nil
			}
			d.metrics.Delivered(ctx, c.TenantID)
			return nil
		})
	}
	_ = g.Wait()
}
