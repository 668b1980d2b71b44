package telemetry

import (
	"context"
	"fmt"

	"github.com/cgslivre/flight/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
	otelTrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Manager owns the TracerProvider and MetricsManager lifecycles.
type Manager struct {
	config         Config
	logger         *logger.CtxZapLogger
	tracerProvider *trace.TracerProvider
	metricsManager *MetricsManager
	shutdownFn     func(context.Context) error
}

// Create telemetry manager
func NewManager(config Config, log *logger.CtxZapLogger) *Manager {
	if log == nil {
		log = logger.GetLogger("flight")
	}
	return &Manager{
		config: config,
		logger: log,
	}
}

// Start telemetry: tracer provider, propagator, optional metrics
func (m *Manager) Start(ctx context.Context) error {
	if !m.config.Enabled {
		m.logger.InfoCtx(ctx, "Telemetry disabled, skipping initialization")
		return nil
	}

	// All providers share one Resource
	res, err := m.createResource(ctx)
	if err != nil {
		return fmt.Errorf("create resource failed: %w", err)
	}

	// Create TracerProvider
	tp, shutdownFn, err := m.createTracerProvider(ctx, res)
	if err != nil {
		return err
	}

	m.tracerProvider = tp
	m.shutdownFn = shutdownFn

	// Set global TracerProvider
	otel.SetTracerProvider(tp)

	// Set global TextMapPropagator (for cross-service trace context propagation)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Initialize Metrics (using the same Resource)
	if m.config.Metrics.Enabled {
		metricsManager, err := NewMetricsManager(m.config, res)
		if err != nil {
			m.logger.ErrorCtx(ctx, "❌ Failed to create Metrics manager", zap.Error(err))
			return fmt.Errorf("create metrics manager failed: %w", err)
		}

		m.metricsManager = metricsManager

		m.logger.InfoCtx(ctx, "✅ Metrics initialized",
			zap.Bool("event_enabled", m.config.Metrics.Event.Enabled),
			zap.String("namespace", m.config.Metrics.Namespace),
			zap.Duration("export_interval", m.config.Metrics.ExportInterval),
		)
	}

	m.logger.InfoCtx(ctx, "✅ Telemetry started",
		zap.String("service_name", m.config.ServiceName),
		zap.String("exporter", m.config.Exporter.Type),
		zap.String("sampler", m.config.Sampler.Type),
	)

	return nil
}

// Shut down telemetry: metrics first, then the tracer pipeline
func (m *Manager) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}

	if m.metricsManager != nil {
		if err := m.metricsManager.Shutdown(ctx); err != nil {
			m.logger.ErrorCtx(ctx, "Failed to shutdown Metrics", zap.Error(err))
		}
	}

	if m.shutdownFn != nil {
		return m.shutdownFn(ctx)
	}
	return nil
}

// GetTracer obtain tracer
func (m *Manager) GetTracer(name string) otelTrace.Tracer {
	if m.tracerProvider == nil {
		return otel.GetTracerProvider().Tracer(name)
	}
	return m.tracerProvider.Tracer(name)
}

// GetTracerProvider obtain tracer provider (global no-op until Start)
func (m *Manager) GetTracerProvider() otelTrace.TracerProvider {
	if m.tracerProvider == nil {
		return otel.GetTracerProvider()
	}
	return m.tracerProvider
}

// GetMetricsManager obtain Metrics manager
func (m *Manager) GetMetricsManager() *MetricsManager {
	return m.metricsManager
}

// IsEnabled whether enabled
func (m *Manager) IsEnabled() bool {
	return m.config.Enabled
}

// GetConfig Retrieve configuration
func (m *Manager) GetConfig() Config {
	return m.config
}
