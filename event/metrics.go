package event

import (
	"context"
	"sync"
	"time"

	"github.com/cgslivre/flight/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Dispatch outcome labels on the dispatched counter.
const (
	statusOK           = "ok"
	statusUnknownEvent = "unknown_event"
	statusFilterError  = "filter_error"
	statusTargetError  = "target_error"
)

// MetricsConfig holds configuration for dispatch metrics.
type MetricsConfig struct {
	Enabled bool
	Prefix  string
}

// Metrics implements component.MetricsProvider for dispatch instrumentation.
type Metrics struct {
	config     MetricsConfig
	meter      metric.Meter
	registered bool
	mu         sync.RWMutex

	// Metrics instruments
	dispatched      metric.Int64Counter     // dispatches by event and status
	dispatchSeconds metric.Float64Histogram // dispatch duration
	filterHalts     metric.Int64Counter     // filter chain short-circuits
}

// NewMetrics creates a dispatch metrics provider.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if cfg.Prefix == "" {
		cfg.Prefix = "flight"
	}
	return &Metrics{
		config: cfg,
	}
}

// MetricsName returns the metrics group name.
func (m *Metrics) MetricsName() string {
	return "event"
}

// IsMetricsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsMetricsEnabled() bool {
	return m.config.Enabled
}

// RegisterMetrics creates the dispatch instruments on meter.
func (m *Metrics) RegisterMetrics(meter metric.Meter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return nil
	}

	m.meter = meter
	builder := telemetry.NewMetricsBuilder(meter, m.config.Prefix)
	var err error

	// Counter: dispatches
	m.dispatched, err = builder.CounterWithUnit(
		"events_dispatched_total",
		"Total number of events dispatched",
		"{event}",
	)
	if err != nil {
		return err
	}

	// Histogram: dispatch duration
	m.dispatchSeconds, err = builder.DurationHistogram(
		"dispatch_duration_seconds",
		"Event dispatch duration distribution",
	)
	if err != nil {
		return err
	}

	// Counter: filter chain short-circuits
	m.filterHalts, err = builder.CounterWithUnit(
		"filter_halts_total",
		"Total number of filter chain short-circuits",
		"{halt}",
	)
	if err != nil {
		return err
	}

	m.registered = true
	return nil
}

// RecordDispatch records one Run call with its outcome status.
func (m *Metrics) RecordDispatch(ctx context.Context, event, status string, duration time.Duration) {
	if !m.registered {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("event", event),
		attribute.String("status", status),
	}

	m.dispatched.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchSeconds.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordFilterHalt records a filter chain stopping early.
func (m *Metrics) RecordFilterHalt(ctx context.Context, event string, phase Phase) {
	if !m.registered {
		return
	}

	m.filterHalts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("phase", phase.String()),
	))
}

// IsRegistered returns whether metrics have been registered.
func (m *Metrics) IsRegistered() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registered
}
