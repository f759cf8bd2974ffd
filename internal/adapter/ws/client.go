package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/pulsefeed/pulsefeed/internal/adapter/otel"
	"github.com/pulsefeed/pulsefeed/internal/domain/event"
	"github.com/pulsefeed/pulsefeed/internal/registry"
)

// client is one subscriber connection. It implements broadcast.Subscriber;
// the dispatcher calls Deliver for every event on the client's tenant.
type client struct {
	tenantID string
	conn     *websocket.Conn
	reg      *registry.Registry
	metrics  *otel.Metrics
	cancel   context.CancelFunc

	// mu serializes frame writes. The accept path holds it across
	// join + history replay so a concurrently announced broadcast cannot
	// reach the socket before the replay batch.
	mu   sync.Mutex
	once sync.Once
}

// Deliver writes one live event frame. ctx is expected to carry the
// dispatcher's per-delivery deadline; it bounds both the wait for the write
// lock and the write itself. A failed write tears the connection down so the
// registry never keeps delivering to a dead socket.
func (c *client) Deliver(ctx context.Context, e event.Event) error {
	data, err := encodeMessage(MessageTypeEvent, e)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		go c.teardown()
		return err
	}
	return nil
}

// readLoop consumes inbound frames to detect disconnects and respond to
// pings. Subscribers never send application data.
func (c *client) readLoop(ctx context.Context) {
	defer c.teardown()
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// teardown deregisters the client and closes the socket exactly once.
// After it returns the client is unreachable by future broadcasts.
func (c *client) teardown() {
	c.once.Do(func() {
		c.reg.Leave(c.tenantID, c)
		c.metrics.ConnectionClosed(context.Background(), c.tenantID)
		c.cancel()
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
		slog.Info("subscriber disconnected", "tenant", c.tenantID)
	})
}
