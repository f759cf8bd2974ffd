package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "pulsefeed"

// Metrics holds all pulsefeed metric instruments. A nil *Metrics is valid;
// every method is a no-op on it, so callers do not need to guard.
type Metrics struct {
	eventsCreated    metric.Int64Counter
	eventsDelivered  metric.Int64Counter
	deliveryFailures metric.Int64Counter
	connections      metric.Int64UpDownCounter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.eventsCreated, err = meter.Int64Counter("pulsefeed.events.created",
		metric.WithDescription("Number of events created"))
	if err != nil {
		return nil, err
	}

	m.eventsDelivered, err = meter.Int64Counter("pulsefeed.broadcast.delivered",
		metric.WithDescription("Number of per-subscriber deliveries"))
	if err != nil {
		return nil, err
	}

	m.deliveryFailures, err = meter.Int64Counter("pulsefeed.broadcast.failures",
		metric.WithDescription("Number of failed per-subscriber deliveries"))
	if err != nil {
		return nil, err
	}

	m.connections, err = meter.Int64UpDownCounter("pulsefeed.connections.active",
		metric.WithDescription("Active subscriber connections"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

func tenantAttr(tenantID string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("tenant", tenantID))
}

// EventCreated records one created event for the tenant.
func (m *Metrics) EventCreated(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.eventsCreated.Add(ctx, 1, tenantAttr(tenantID))
}

// Delivered records one successful per-subscriber delivery.
func (m *Metrics) Delivered(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.eventsDelivered.Add(ctx, 1, tenantAttr(tenantID))
}

// DeliveryFailed records one failed per-subscriber delivery.
func (m *Metrics) DeliveryFailed(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.deliveryFailures.Add(ctx, 1, tenantAttr(tenantID))
}

// ConnectionOpened records a subscriber connect.
func (m *Metrics) ConnectionOpened(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.connections.Add(ctx, 1, tenantAttr(tenantID))
}

// ConnectionClosed records a subscriber disconnect.
func (m *Metrics) ConnectionClosed(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.connections.Add(ctx, -1, tenantAttr(tenantID))
}
