package event

import (
	"context"
	"fmt"

	"github.com/cgslivre/flight/component"
	"github.com/cgslivre/flight/logger"
	"github.com/cgslivre/flight/validator"
	"go.opentelemetry.io/otel/metric"
)

// Component wires the dispatcher into the component lifecycle.
type Component struct {
	dispatcher *dispatcher
	metrics    *Metrics
	logger     *logger.CtxZapLogger
	config     Config
}

// NewComponent creates the event component.
func NewComponent() *Component {
	return &Component{}
}

// Name returns the component name.
func (c *Component) Name() string {
	return component.ComponentEvent
}

// DependsOn returns the components this one needs first.
func (c *Component) DependsOn() []string {
	return []string{
		component.ComponentConfig,
		component.ComponentLogger,
	}
}

// Init loads the event configuration and creates the dispatcher.
func (c *Component) Init(ctx context.Context, loader component.ConfigLoader) error {
	c.logger = logger.GetLogger("flight")
	c.logger.DebugCtx(ctx, "🔧 initializing event component...")

	c.config = DefaultConfig()
	if err := loader.Unmarshal("event", &c.config); err != nil {
		c.logger.DebugCtx(ctx, "using default event configuration")
	}

	if err := validator.ValidateRequest(c.config); err != nil {
		return err
	}

	if !c.config.Enabled {
		c.logger.InfoCtx(ctx, "⏭️ event component disabled")
		return nil
	}

	opts := []DispatcherOption{
		WithLogger(c.logger),
		WithDispatchLogging(c.config.LogDispatch),
	}
	if c.config.Metrics {
		c.metrics = NewMetrics(MetricsConfig{
			Enabled: true,
			Prefix:  c.config.MetricPrefix,
		})
		opts = append(opts, WithMetrics(c.metrics))
	}

	c.dispatcher = NewDispatcher(opts...)

	c.logger.InfoCtx(ctx, fmt.Sprintf("✅ event component initialized (metrics=%t)", c.config.Metrics))
	return nil
}

// Start starts the component. Dispatch needs no background work.
func (c *Component) Start(ctx context.Context) error {
	return nil
}

// Stop stops the component.
func (c *Component) Stop(ctx context.Context) error {
	if c.dispatcher != nil {
		c.logger.InfoCtx(ctx, "✅ event component stopped")
	}
	return nil
}

// GetDispatcher returns the event dispatcher, nil when disabled.
func (c *Component) GetDispatcher() Dispatcher {
	if c.dispatcher == nil {
		return nil
	}
	return c.dispatcher
}

// IsEnabled reports whether the component is active.
func (c *Component) IsEnabled() bool {
	return c.config.Enabled && c.dispatcher != nil
}

// Check implements component.HealthChecker. A disabled component is
// healthy; an enabled one must hold an initialized dispatcher.
func (c *Component) Check(ctx context.Context) error {
	if c.config.Enabled && c.dispatcher == nil {
		return fmt.Errorf("event dispatcher not initialized")
	}
	return nil
}

// MetricsName returns the metrics group name.
func (c *Component) MetricsName() string {
	return "event"
}

// RegisterMetrics registers the dispatch instruments with meter.
func (c *Component) RegisterMetrics(meter metric.Meter) error {
	if c.metrics == nil {
		return nil
	}
	return c.metrics.RegisterMetrics(meter)
}

// IsMetricsEnabled reports whether dispatch metrics are on.
func (c *Component) IsMetricsEnabled() bool {
	return c.metrics != nil && c.metrics.IsMetricsEnabled()
}
