package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// MetricsBuilder cuts instrument-creation boilerplate for layer metrics.
type MetricsBuilder struct {
	meter     metric.Meter
	namespace string
}

// NewMetricsBuilder creates a builder that prefixes every name with namespace.
func NewMetricsBuilder(meter metric.Meter, namespace string) *MetricsBuilder {
	return &MetricsBuilder{
		meter:     meter,
		namespace: namespace,
	}
}

// fullName generates the complete metric name
func (b *MetricsBuilder) fullName(name string) string {
	if b.namespace == "" {
		return name
	}
	return b.namespace + "_" + name
}

// Counter creates an Int64Counter
func (b *MetricsBuilder) Counter(name, desc string) (metric.Int64Counter, error) {
	return b.meter.Int64Counter(
		b.fullName(name),
		metric.WithDescription(desc),
		metric.WithUnit("{count}"),
	)
}

// CounterWithUnit creates an Int64Counter with a custom unit
func (b *MetricsBuilder) CounterWithUnit(name, desc, unit string) (metric.Int64Counter, error) {
	return b.meter.Int64Counter(
		b.fullName(name),
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	)
}

// Histogram creates a Float64Histogram
func (b *MetricsBuilder) Histogram(name, desc, unit string) (metric.Float64Histogram, error) {
	return b.meter.Float64Histogram(
		b.fullName(name),
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	)
}

// DurationHistogram creates a duration distribution histogram (seconds)
func (b *MetricsBuilder) DurationHistogram(name, desc string) (metric.Float64Histogram, error) {
	return b.Histogram(name, desc, "s")
}

// Gauge creates an observable gauge fed by callback
func (b *MetricsBuilder) Gauge(name, desc string, callback func(context.Context) (int64, error)) (metric.Int64ObservableGauge, error) {
	return b.meter.Int64ObservableGauge(
		b.fullName(name),
		metric.WithDescription(desc),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			val, err := callback(ctx)
			if err != nil {
				return err
			}
			o.Observe(val)
			return nil
		}),
	)
}
