// Package broadcast defines the port between the dispatcher and the
// subscriber transport.
package broadcast

import (
	"context"

	"github.com/pulsefeed/pulsefeed/internal/domain/event"
)

// Subscriber is a live subscriber connection registered under one tenant.
// Deliver pushes a single event to the subscriber; the transport layer
// implements it and must honor ctx cancellation so a stuck subscriber
// cannot stall the dispatcher.
type Subscriber interface {
	Deliver(ctx context.Context, e event.Event) error
}
