// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the otel metric pipeline. The prometheus exporter
// registers with the default registry, so the /metrics endpoint picks these
// up alongside the promauto HTTP vecs.
type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	messageCounter  otelmetric.Int64Counter
	sessionCounter  otelmetric.Int64Counter
	advanceDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	messageCounter, _ := meter.Int64Counter(
		"dialogue.messages.processed",
		otelmetric.WithDescription("Number of inbound messages processed"),
	)

	sessionCounter, _ := meter.Int64Counter(
		"dialogue.sessions.events",
		otelmetric.WithDescription("Session lifecycle events (created, expired, reset, completed)"),
	)

	advanceDuration, _ := meter.Float64Histogram(
		"dialogue.advance.duration",
		otelmetric.WithDescription("Duration of one advance turn"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		messageCounter:  messageCounter,
		sessionCounter:  sessionCounter,
		advanceDuration: advanceDuration,
	}
}

// RecordMessageProcessed counts one processed inbound message by outcome
// (asked, clarified, completed).
func (o *Observability) RecordMessageProcessed(ctx context.Context, outcome string) {
	if o.messageCounter != nil {
		o.messageCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

// RecordSessionEvent counts one session lifecycle event.
func (o *Observability) RecordSessionEvent(ctx context.Context, event string) {
	if o.sessionCounter != nil {
		o.sessionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("event", event),
		))
	}
}

// RecordAdvanceDuration records how long one advance turn took.
func (o *Observability) RecordAdvanceDuration(ctx context.Context, duration time.Duration, outcome string) {
	if o.advanceDuration != nil {
		o.advanceDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
