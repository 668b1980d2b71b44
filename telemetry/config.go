package telemetry

import (
	"fmt"
	"time"
)

// Configure OpenTelemetry
type Config struct {
	Enabled        bool                   `mapstructure:"enabled"`             // Is enabled
	ServiceName    string                 `mapstructure:"service_name"`        // service name
	ServiceVersion string                 `mapstructure:"service_version"`     // service version
	Exporter       ExporterConfig         `mapstructure:"exporter"`            // exporter configuration
	Sampler        SamplerConfig          `mapstructure:"sampler"`             // Sampling configuration
	ResourceAttrs  map[string]interface{} `mapstructure:"resource_attributes"` // Resource attributes (support nesting)
	Span           SpanConfig             `mapstructure:"span"`                // Span configuration
	Batch          BatchConfig            `mapstructure:"batch"`               // Batch processing configuration
	Metrics        MetricsConfig          `mapstructure:"metrics"`             // Metrics configuration
}

// ExporterConfig exporter configuration
type ExporterConfig struct {
	Type     string            `mapstructure:"type"`     // Export type: otlp, stdout, noop
	Endpoint string            `mapstructure:"endpoint"` // Export endpoint
	Insecure bool              `mapstructure:"insecure"` // Whether to use an insecure connection
	Timeout  time.Duration     `mapstructure:"timeout"`  // Export timeout
	Headers  map[string]string `mapstructure:"headers"`  // Custom headers (for authentication etc.)
}

// SamplerConfig Sampling configuration
type SamplerConfig struct {
	Type  string  `mapstructure:"type"`  // sampling type
	Ratio float64 `mapstructure:"ratio"` // Sampling ratio (effective only when using trace_id_ratio)
}

// SpanConfig Span configuration
type SpanConfig struct {
	MaxAttributes      int `mapstructure:"max_attributes"`       // Maximum number of span attributes
	MaxEvents          int `mapstructure:"max_events"`           // Maximum number of events per span
	MaxLinks           int `mapstructure:"max_links"`            // Maximum number of links per span
	MaxAttributeLength int `mapstructure:"max_attribute_length"` // Maximum length of a single attribute
}

// BatchConfig batch processing configuration
type BatchConfig struct {
	Enabled            bool          `mapstructure:"enabled"`               // Whether batch processing is enabled
	MaxQueueSize       int           `mapstructure:"max_queue_size"`        // maximum queue size
	MaxExportBatchSize int           `mapstructure:"max_export_batch_size"` // Maximum number of spans per export
	ScheduleDelay      time.Duration `mapstructure:"schedule_delay"`        // export interval
	ExportTimeout      time.Duration `mapstructure:"export_timeout"`        // Export timeout
}

// Metrics configuration
type MetricsConfig struct {
	Enabled        bool              `mapstructure:"enabled"`         // Whether Metrics is enabled
	ExportInterval time.Duration     `mapstructure:"export_interval"` // export interval
	ExportTimeout  time.Duration     `mapstructure:"export_timeout"`  // Export timeout
	Namespace      string            `mapstructure:"namespace"`       // metric namespace prefix
	Labels         map[string]string `mapstructure:"labels"`          // Global tags (env, region, etc.)
	Event          EventMetrics      `mapstructure:"event"`           // Event layer metric configuration
}

// EventMetrics event layer metric configuration
type EventMetrics struct {
	Enabled bool `mapstructure:"enabled"` // Is enabled
}

// Return default configuration
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "unknown-service",
		ServiceVersion: "1.0.0",
		Exporter: ExporterConfig{
			Type:     "otlp",
			Endpoint: "localhost:4317",
			Insecure: true,
			Timeout:  10 * time.Second,
		},
		Sampler: SamplerConfig{
			Type:  "parent_based_always_on",
			Ratio: 1.0,
		},
		ResourceAttrs: make(map[string]interface{}),
		Span: SpanConfig{
			MaxAttributes:      128,
			MaxEvents:          128,
			MaxLinks:           128,
			MaxAttributeLength: 1024,
		},
		Batch: BatchConfig{
			Enabled:            true,
			MaxQueueSize:       2048,
			MaxExportBatchSize: 512,
			ScheduleDelay:      5 * time.Second,
			ExportTimeout:      30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:        false, // Default off
			ExportInterval: 10 * time.Second,
			ExportTimeout:  5 * time.Second,
			Namespace:      "flight",
			Labels:         make(map[string]string),
			Event: EventMetrics{
				Enabled: false,
			},
		},
	}
}

// Validate configuration
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil // not enabled, verification not required
	}

	// Validate service name
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required when telemetry is enabled")
	}

	// Validate exporter type
	switch c.Exporter.Type {
	case "otlp", "stdout", "noop":
		// Supported types
	default:
		return fmt.Errorf("unsupported exporter type: %s (supported: otlp, stdout, noop)", c.Exporter.Type)
	}

	// Verify OTLP exporter endpoint
	if c.Exporter.Type == "otlp" && c.Exporter.Endpoint == "" {
		return fmt.Errorf("exporter endpoint is required for otlp exporter")
	}

	// Validate sampling type
	switch c.Sampler.Type {
	case "always_on", "always_off", "trace_id_ratio", "parent_based_always_on":
		// Supported types
	default:
		return fmt.Errorf("unsupported sampler type: %s", c.Sampler.Type)
	}

	// Validate sampling ratio
	if c.Sampler.Type == "trace_id_ratio" {
		if c.Sampler.Ratio < 0 || c.Sampler.Ratio > 1 {
			return fmt.Errorf("sampler ratio must be between 0 and 1, got: %f", c.Sampler.Ratio)
		}
	}

	// Validate batch processing configuration
	if c.Batch.Enabled {
		if c.Batch.MaxQueueSize <= 0 {
			return fmt.Errorf("batch max_queue_size must be positive, got: %d", c.Batch.MaxQueueSize)
		}
		if c.Batch.MaxExportBatchSize <= 0 {
			return fmt.Errorf("batch max_export_batch_size must be positive, got: %d", c.Batch.MaxExportBatchSize)
		}
	}

	return nil
}
