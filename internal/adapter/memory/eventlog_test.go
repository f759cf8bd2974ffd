package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pulsefeed/pulsefeed/internal/domain"
	"github.com/pulsefeed/pulsefeed/internal/domain/event"
	"github.com/pulsefeed/pulsefeed/internal/domain/tenant"
)

func newTestLog(capacity int) *EventLog {
	return NewEventLog(tenant.NewCatalog([]string{"tenant_a", "tenant_b"}), capacity)
}

func mkEvent(tenantID, msg string) event.Event {
	return event.New(tenantID, msg, time.Now())
}

func TestAppendAndListNewestFirst(t *testing.T) {
	l := newTestLog(1000)

	for _, m := range []string{"m1", "m2", "m3"} {
		if err := l.Append("tenant_a", mkEvent("tenant_a", m)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := l.List("tenant_a", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Message != "m3" || got[1].Message != "m2" {
		t.Errorf("expected [m3 m2], got [%s %s]", got[0].Message, got[1].Message)
	}

	if c := l.Count("tenant_a"); c != 3 {
		t.Errorf("expected count 3, got %d", c)
	}
	if c := l.Count("tenant_b"); c != 0 {
		t.Errorf("expected count 0 for tenant_b, got %d", c)
	}
}

func TestAppendEvictsOldestAtCapacity(t *testing.T) {
	l := newTestLog(1000)

	for i := range 1001 {
		if err := l.Append("tenant_a", mkEvent("tenant_a", fmt.Sprintf("m%d", i))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	if c := l.Count("tenant_a"); c != 1000 {
		t.Fatalf("expected count 1000, got %d", c)
	}

	got, err := l.List("tenant_a", 1000)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].Message != "m1000" {
		t.Errorf("expected newest m1000, got %s", got[0].Message)
	}
	if got[len(got)-1].Message != "m1" {
		t.Errorf("expected oldest m1 after eviction, got %s", got[len(got)-1].Message)
	}
	for _, e := range got {
		if e.Message == "m0" {
			t.Error("evicted event m0 still listed")
		}
	}
}

func TestUnknownTenant(t *testing.T) {
	l := newTestLog(10)

	if err := l.Append("nope", mkEvent("nope", "m")); !errors.Is(err, domain.ErrUnknownTenant) {
		t.Errorf("append: expected ErrUnknownTenant, got %v", err)
	}
	if _, err := l.List("nope", 5); !errors.Is(err, domain.ErrUnknownTenant) {
		t.Errorf("list: expected ErrUnknownTenant, got %v", err)
	}
	if err := l.Clear("nope"); !errors.Is(err, domain.ErrUnknownTenant) {
		t.Errorf("clear: expected ErrUnknownTenant, got %v", err)
	}
	if c := l.Count("nope"); c != 0 {
		t.Errorf("count: expected 0, got %d", c)
	}
}

func TestListClampsLimit(t *testing.T) {
	l := newTestLog(10)
	_ = l.Append("tenant_a", mkEvent("tenant_a", "m1"))

	got, err := l.List("tenant_a", 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 event, got %d", len(got))
	}

	got, err = l.List("tenant_a", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list for limit 0, got %d", len(got))
	}
}

func TestListReturnsIndependentCopy(t *testing.T) {
	l := newTestLog(10)
	_ = l.Append("tenant_a", mkEvent("tenant_a", "original"))

	got, _ := l.List("tenant_a", 1)
	got[0].Message = "mutated"

	again, _ := l.List("tenant_a", 1)
	if again[0].Message != "original" {
		t.Error("mutating a listed event must not affect stored state")
	}
}

func TestClear(t *testing.T) {
	l := newTestLog(10)
	_ = l.Append("tenant_a", mkEvent("tenant_a", "m1"))
	_ = l.Append("tenant_b", mkEvent("tenant_b", "m2"))

	if err := l.Clear("tenant_a"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if c := l.Count("tenant_a"); c != 0 {
		t.Errorf("expected 0 after clear, got %d", c)
	}
	if c := l.Count("tenant_b"); c != 1 {
		t.Errorf("clear must not touch other tenants, got %d", c)
	}
}

func TestConcurrentAppends(t *testing.T) {
	l := newTestLog(1000)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				_ = l.Append("tenant_a", mkEvent("tenant_a", fmt.Sprintf("m%d", i)))
				_ = l.Append("tenant_b", mkEvent("tenant_b", fmt.Sprintf("m%d", i)))
			}
		}()
	}
	wg.Wait()

	if c := l.Count("tenant_a"); c != 500 {
		t.Errorf("expected 500 events for tenant_a, got %d", c)
	}
	if c := l.Count("tenant_b"); c != 500 {
		t.Errorf("expected 500 events for tenant_b, got %d", c)
	}
}
