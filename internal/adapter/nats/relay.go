// Package nats relays created events to NATS JetStream so external consumers
// can follow the feed without holding a WebSocket connection.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/pulsefeed/pulsefeed/internal/bus"
)

const streamName = "PULSEFEED"

// Relay mirrors every event creation onto a per-tenant JetStream subject.
type Relay struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// Connect establishes a connection to NATS and ensures the JetStream stream
// exists.
func Connect(ctx context.Context, url string) (*Relay, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"events.>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	slog.Info("nats connected", "url", url, "stream", streamName)
	return &Relay{nc: nc, js: js}, nil
}

// Start subscribes the relay to the bus. Publishing is async so a slow or
// unreachable broker cannot stall event creation; publish failures are logged
// and dropped, the WebSocket path stays authoritative.
func (r *Relay) Start(b *bus.Bus) {
	b.Subscribe(func(_ context.Context, c bus.Creation) {
		data, err := json.Marshal(c.Event)
		if err != nil {
			slog.Error("event marshal failed", "tenant", c.TenantID, "error", err)
			return
		}
		if _, err := r.js.PublishAsync(subjectFor(c.TenantID), data); err != nil {
			slog.Error("nats publish failed", "tenant", c.TenantID, "error", err)
		}
	})
}

// subjectFor maps a tenant to its relay subject.
func subjectFor(tenantID string) string {
	return "events." + tenantID
}

// Close shuts down the NATS connection.
func (r *Relay) Close() error {
	r.nc.Close()
	return nil
}
