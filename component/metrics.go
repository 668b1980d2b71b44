package component

import (
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider is optionally implemented by components that publish
// metrics. After Init, the application harness hands the provider a Meter
// scoped to its MetricsName.
//
//	func (c *Component) MetricsName() string { return "event" }
//
//	func (c *Component) RegisterMetrics(meter metric.Meter) error {
//	    counter, err := meter.Int64Counter("events_dispatched_total")
//	    if err != nil {
//	        return err
//	    }
//	    c.dispatched = counter
//	    return nil
//	}
//
//	func (c *Component) IsMetricsEnabled() bool { return c.config.Metrics }
type MetricsProvider interface {
	// MetricsName returns the meter scope, a short lowercase identifier.
	MetricsName() string

	// RegisterMetrics creates the component's instruments on meter.
	RegisterMetrics(meter metric.Meter) error

	// IsMetricsEnabled reports whether this component's metrics are on.
	IsMetricsEnabled() bool
}
