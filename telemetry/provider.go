package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// createTracerProvider assembles the span pipeline around res.
func (m *Manager) createTracerProvider(ctx context.Context, res *resource.Resource) (
	*trace.TracerProvider, func(context.Context) error, error) {

	exporter, err := m.createExporter(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("create exporter failed: %w", err)
	}

	opts := []trace.TracerProviderOption{
		trace.WithResource(res),
		trace.WithSampler(m.createSampler()),
	}

	if m.config.Batch.Enabled {
		// Batch mode (recommended for production)
		batchOpts := []trace.BatchSpanProcessorOption{
			trace.WithMaxQueueSize(m.config.Batch.MaxQueueSize),
			trace.WithMaxExportBatchSize(m.config.Batch.MaxExportBatchSize),
			trace.WithBatchTimeout(m.config.Batch.ScheduleDelay),
			trace.WithExportTimeout(m.config.Batch.ExportTimeout),
		}
		opts = append(opts, trace.WithBatcher(exporter, batchOpts...))
	} else {
		// Sync mode (debugging only)
		opts = append(opts, trace.WithSyncer(exporter))
	}

	if m.config.Span.MaxAttributes > 0 {
		opts = append(opts, trace.WithSpanLimits(trace.SpanLimits{
			AttributeCountLimit:       m.config.Span.MaxAttributes,
			EventCountLimit:           m.config.Span.MaxEvents,
			LinkCountLimit:            m.config.Span.MaxLinks,
			AttributeValueLengthLimit: m.config.Span.MaxAttributeLength,
		}))
	}

	tp := trace.NewTracerProvider(opts...)

	shutdownFn := func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown tracer provider failed: %w", err)
		}
		return nil
	}

	return tp, shutdownFn, nil
}

// createSampler maps the configured sampling type
func (m *Manager) createSampler() trace.Sampler {
	switch m.config.Sampler.Type {
	case "always_on":
		return trace.AlwaysSample()
	case "always_off":
		return trace.NeverSample()
	case "trace_id_ratio":
		return trace.TraceIDRatioBased(m.config.Sampler.Ratio)
	case "parent_based_always_on":
		return trace.ParentBased(trace.AlwaysSample())
	default:
		return trace.ParentBased(trace.AlwaysSample())
	}
}

// createResource creates Resource (service information)
func (m *Manager) createResource(ctx context.Context) (*resource.Resource, error) {
	// Basic attributes
	attrs := []attribute.KeyValue{
		semconv.ServiceName(m.config.ServiceName),
		semconv.ServiceVersion(m.config.ServiceVersion),
	}

	// Add custom resource attributes (support nested structure)
	flattenedAttrs := flattenMap(m.config.ResourceAttrs, "")
	for key, value := range flattenedAttrs {
		// Supports environment variable substitution
		expandedValue := os.ExpandEnv(value)
		attrs = append(attrs, attribute.String(key, expandedValue))
	}

	return resource.New(ctx,
		resource.WithAttributes(attrs...),
		resource.WithHost(),         // Automatically add host information
		resource.WithProcess(),      // Automatically add process information
		resource.WithTelemetrySDK(), // Automatically add SDK information
	)
}

// flattenMap flattens nested maps into dot-separated key-value pairs
// For example: {"deployment": {"environment": "test"}} => {"deployment.environment": "test"}
func flattenMap(m map[string]interface{}, prefix string) map[string]string {
	result := make(map[string]string)
	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]interface{}:
			nested := flattenMap(v, fullKey)
			for nestedKey, nestedValue := range nested {
				result[nestedKey] = nestedValue
			}
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}
	return result
}
