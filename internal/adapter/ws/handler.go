// Package ws implements the WebSocket subscriber transport.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/pulsefeed/pulsefeed/internal/adapter/otel"
	"github.com/pulsefeed/pulsefeed/internal/domain/tenant"
	"github.com/pulsefeed/pulsefeed/internal/port/eventstore"
	"github.com/pulsefeed/pulsefeed/internal/registry"
)

// Handler accepts subscriber connections and registers them with the
// connection registry.
type Handler struct {
	catalog      *tenant.Catalog
	reg          *registry.Registry
	store        eventstore.Store
	metrics      *otel.Metrics
	replayCount  int
	writeTimeout time.Duration
}

// NewHandler creates the WebSocket handler. replayCount is the number of
// recent events sent to each new subscriber; writeTimeout bounds the replay
// write.
func NewHandler(cat *tenant.Catalog, reg *registry.Registry, store eventstore.Store, metrics *otel.Metrics, replayCount int, writeTimeout time.Duration) *Handler {
	return &Handler{
		catalog:      cat,
		reg:          reg,
		store:        store,
		metrics:      metrics,
		replayCount:  replayCount,
		writeTimeout: writeTimeout,
	}
}

// Subscribe upgrades the connection, joins the tenant's group, and replays
// recent history before any live broadcast reaches the new subscriber.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant")
	if tenantID == "" {
		tenantID = r.Header.Get("X-Tenant-ID")
	}
	if !h.catalog.IsValid(tenantID) {
		http.Error(w, "unknown tenant", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS handled by middleware
	})
	if err != nil {
		slog.Error("websocket accept failed", "tenant", tenantID, "error", err)
		return
	}

	// The connection outlives this handler, so its context cannot be the
	// request's.
	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		tenantID: tenantID,
		conn:     conn,
		reg:      h.reg,
		metrics:  h.metrics,
		cancel:   cancel,
	}

	// Join first, then read the history snapshot, all under the client's
	// write lock. Broadcasts announced after the join block on that lock,
	// so the replay batch is always on the wire before any live event. An
	// event created inside this window may arrive twice (once in the batch,
	// once live); delivery is at-least-once.
	c.mu.Lock()
	if err := h.reg.Join(tenantID, c); err != nil {
		c.mu.Unlock()
		cancel()
		_ = conn.Close(websocket.StatusInternalError, "join failed")
		return
	}
	h.metrics.ConnectionOpened(ctx, tenantID)

	if history, lerr := h.store.List(tenantID, h.replayCount); lerr == nil {
		if data, merr := encodeMessage(MessageTypeHistory, history); merr == nil {
			wctx, wcancel := context.WithTimeout(ctx, h.writeTimeout)
			if werr := conn.Write(wctx, websocket.MessageText, data); werr != nil {
				slog.Debug("history write failed", "tenant", tenantID, "error", werr)
			}
			wcancel()
		}
	}
	c.mu.Unlock()

	slog.Info("subscriber connected", "tenant", tenantID, "remote", r.RemoteAddr)
	go c.readLoop(ctx)
}
