package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/cgslivre/flight/component"
)

// MetricsManager owns the MeterProvider lifecycle and the registration of
// component metrics groups.
type MetricsManager struct {
	meterProvider *sdkmetric.MeterProvider
	config        MetricsConfig
	enabled       bool

	mu        sync.Mutex
	providers map[string]bool // registered provider names
}

// NewMetricsManager builds the metrics pipeline on res.
func NewMetricsManager(cfg Config, res *resource.Resource) (*MetricsManager, error) {
	if !cfg.Enabled || !cfg.Metrics.Enabled {
		return &MetricsManager{
			enabled:   false,
			config:    cfg.Metrics,
			providers: make(map[string]bool),
		}, nil
	}

	var exporter sdkmetric.Exporter
	var err error

	switch cfg.Exporter.Type {
	case "otlp":
		// OTLP gRPC exporter
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(cfg.Exporter.Endpoint),
			otlpmetricgrpc.WithTimeout(cfg.Exporter.Timeout),
		}

		if cfg.Exporter.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}

		// Custom headers (for authentication)
		if len(cfg.Exporter.Headers) > 0 {
			opts = append(opts, otlpmetricgrpc.WithHeaders(cfg.Exporter.Headers))
		}

		exporter, err = otlpmetricgrpc.New(context.Background(), opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}

	case "stdout":
		// Stdout exporter (for debugging)
		exporter, err = stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}

	case "noop":
		// No exporter; a provider without readers drops every measurement

	default:
		return nil, fmt.Errorf("unsupported metrics exporter type: %s", cfg.Exporter.Type)
	}

	providerOpts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
	}
	if exporter != nil {
		providerOpts = append(providerOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(cfg.Metrics.ExportInterval),
				sdkmetric.WithTimeout(cfg.Metrics.ExportTimeout),
			),
		))
	}
	mp := sdkmetric.NewMeterProvider(providerOpts...)

	// Set global MeterProvider
	otel.SetMeterProvider(mp)

	return &MetricsManager{
		meterProvider: mp,
		config:        cfg.Metrics,
		enabled:       true,
		providers:     make(map[string]bool),
	}, nil
}

// RegisterProvider registers a component metrics group on a meter named
// after the provider. Registration is a no-op when the manager or the
// provider has metrics disabled; duplicate names are rejected.
func (m *MetricsManager) RegisterProvider(p component.MetricsProvider) error {
	if p == nil {
		return fmt.Errorf("metrics provider is nil")
	}
	if !m.enabled || !p.IsMetricsEnabled() {
		return nil
	}

	name := p.MetricsName()
	if name == "" {
		return fmt.Errorf("metrics provider name is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.providers[name] {
		return fmt.Errorf("metrics provider %q already registered", name)
	}

	if err := p.RegisterMetrics(m.GetMeter(name)); err != nil {
		return fmt.Errorf("register metrics for %q failed: %w", name, err)
	}

	m.providers[name] = true
	return nil
}

// Shutdown flushes and stops the meter provider
func (m *MetricsManager) Shutdown(ctx context.Context) error {
	if m.meterProvider != nil {
		return m.meterProvider.Shutdown(ctx)
	}
	return nil
}

// GetMeter obtains a Meter (for applications)
func (m *MetricsManager) GetMeter(name string) metric.Meter {
	return otel.Meter(name)
}

// IsEnabled whether enabled
func (m *MetricsManager) IsEnabled() bool {
	return m.enabled
}

// GetConfig Retrieve configuration
func (m *MetricsManager) GetConfig() MetricsConfig {
	return m.config
}

// IsEventMetricsEnabled event layer metrics gate
func (m *MetricsManager) IsEventMetricsEnabled() bool {
	return m.enabled && m.config.Event.Enabled
}
