package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/pulsefeed/pulsefeed/internal/adapter/memory"
	"github.com/pulsefeed/pulsefeed/internal/bus"
	"github.com/pulsefeed/pulsefeed/internal/domain/event"
	"github.com/pulsefeed/pulsefeed/internal/domain/tenant"
	"github.com/pulsefeed/pulsefeed/internal/registry"
	"github.com/pulsefeed/pulsefeed/internal/service"
)

type fixture struct {
	feed *service.Feed
	srv  *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat := tenant.NewCatalog([]string{"tenant_a", "tenant_b"})
	store := memory.NewEventLog(cat, 1000)
	reg := registry.New(cat)
	b := bus.New()
	feed := service.NewFeed(cat, store, b, nil, 500)
	service.NewDispatcher(reg, nil, time.Second).Start(b)

	h := NewHandler(cat, reg, store, nil, 10, time.Second)
	srv := httptest.NewServer(http.HandlerFunc(h.Subscribe))
	t.Cleanup(srv.Close)

	return &fixture{feed: feed, srv: srv}
}

func (f *fixture) dial(t *testing.T, ctx context.Context, tenantID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "?tenant=" + tenantID
	conn, resp, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) Message {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return msg
}

func TestSubscribeReplaysHistoryThenLive(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f := newFixture(t)

	if _, err := f.feed.Create(ctx, "tenant_a", "old"); err != nil {
		t.Fatalf("create: %v", err)
	}

	conn := f.dial(t, ctx, "tenant_a")

	msg := readMessage(t, ctx, conn)
	if msg.Type != MessageTypeHistory {
		t.Fatalf("first frame must be the history batch, got %q", msg.Type)
	}
	var history []event.Event
	if err := json.Unmarshal(msg.Payload, &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(history) != 1 || history[0].Message != "old" {
		t.Fatalf("expected history [old], got %v", history)
	}

	live, err := f.feed.Create(ctx, "tenant_a", "fresh")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	msg = readMessage(t, ctx, conn)
	if msg.Type != MessageTypeEvent {
		t.Fatalf("expected live event frame, got %q", msg.Type)
	}
	var got event.Event
	if err := json.Unmarshal(msg.Payload, &got); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if got.ID != live.ID || got.Message != "fresh" {
		t.Fatalf("expected the created event, got %+v", got)
	}
}

func TestSubscribeIsTenantIsolated(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f := newFixture(t)

	connA := f.dial(t, ctx, "tenant_a")
	connB := f.dial(t, ctx, "tenant_b")

	// drain the (empty) history batches
	readMessage(t, ctx, connA)
	readMessage(t, ctx, connB)

	if _, err := f.feed.Create(ctx, "tenant_a", "secret"); err != nil {
		t.Fatalf("create: %v", err)
	}

	msg := readMessage(t, ctx, connA)
	if msg.Type != MessageTypeEvent {
		t.Fatalf("tenant_a subscriber expected the event, got %q", msg.Type)
	}

	// tenant_b must receive nothing
	bctx, bcancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer bcancel()
	if _, _, err := connB.Read(bctx); err == nil {
		t.Fatal("tenant_b subscriber must not observe tenant_a's event")
	}
}

func TestSubscribeUnknownTenant(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "?tenant=nope"
	conn, resp, err := websocket.Dial(ctx, url, nil)
	if err == nil {
		_ = conn.Close(websocket.StatusNormalClosure, "")
		t.Fatal("expected dial to fail for an unknown tenant")
	}
	if resp != nil {
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
		if resp.Body != nil {
			resp.Body.Close()
		}
	}
}

func TestEncodeMessage(t *testing.T) {
	data, err := encodeMessage(MessageTypeEvent, event.Event{ID: "e1", TenantID: "tenant_a"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != MessageTypeEvent {
		t.Errorf("expected type %q, got %q", MessageTypeEvent, msg.Type)
	}
}
