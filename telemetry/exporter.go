package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials/insecure"
)

// createExporter creates the span exporter for the configured type
func (m *Manager) createExporter(ctx context.Context) (trace.SpanExporter, error) {
	switch m.config.Exporter.Type {
	case "otlp":
		return m.createOTLPExporter(ctx)
	case "stdout":
		return m.createStdoutExporter()
	case "noop":
		return &noopExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", m.config.Exporter.Type)
	}
}

// Create OTLP exporter
func (m *Manager) createOTLPExporter(ctx context.Context) (trace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(m.config.Exporter.Endpoint),
		otlptracegrpc.WithTimeout(m.config.Exporter.Timeout),
	}

	// If using an insecure connection
	if m.config.Exporter.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}

	// Custom headers (for OpenObserve authentication etc.)
	if len(m.config.Exporter.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(m.config.Exporter.Headers))
	}

	// Create gRPC client
	client := otlptracegrpc.NewClient(opts...)

	return otlptrace.New(ctx, client)
}

// createStdoutExporter creates a pretty-printing exporter (for debugging)
func (m *Manager) createStdoutExporter() (trace.SpanExporter, error) {
	return stdouttrace.New(
		stdouttrace.WithPrettyPrint(),
	)
}

// noopExporter drops every span (telemetry on, export nowhere)
type noopExporter struct{}

func (n *noopExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noopExporter) Shutdown(ctx context.Context) error {
	return nil
}
