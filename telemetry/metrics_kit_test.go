package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeterProvider(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
	)
	return mp, reader
}

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) (metricdata.Metrics, bool) {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestMetricsBuilder_Counter(t *testing.T) {
	mp, reader := setupTestMeterProvider(t)
	defer mp.Shutdown(context.Background())

	meter := mp.Meter("test")
	builder := NewMetricsBuilder(meter, "app")

	counter, err := builder.Counter("dispatches_total", "Total dispatches")
	require.NoError(t, err)
	require.NotNil(t, counter)

	// Record some values
	ctx := context.Background()
	counter.Add(ctx, 1)
	counter.Add(ctx, 5)

	// Verify namespaced name and the sum
	m, found := collectMetric(t, reader, "app_dispatches_total")
	require.True(t, found, "Expected metric 'app_dispatches_total' not found")
	sum := m.Data.(metricdata.Sum[int64])
	assert.Equal(t, int64(6), sum.DataPoints[0].Value)
}

func TestMetricsBuilder_CounterWithUnit(t *testing.T) {
	mp, reader := setupTestMeterProvider(t)
	defer mp.Shutdown(context.Background())

	meter := mp.Meter("test")
	builder := NewMetricsBuilder(meter, "app")

	counter, err := builder.CounterWithUnit("events_total", "Total events", "{event}")
	require.NoError(t, err)
	require.NotNil(t, counter)

	counter.Add(context.Background(), 3)

	m, found := collectMetric(t, reader, "app_events_total")
	require.True(t, found)
	assert.Equal(t, "{event}", m.Unit)
}

func TestMetricsBuilder_Histogram(t *testing.T) {
	mp, reader := setupTestMeterProvider(t)
	defer mp.Shutdown(context.Background())

	meter := mp.Meter("test")
	builder := NewMetricsBuilder(meter, "dispatch")

	histogram, err := builder.DurationHistogram("duration_seconds", "Dispatch duration")
	require.NoError(t, err)
	require.NotNil(t, histogram)

	// Record some values
	ctx := context.Background()
	histogram.Record(ctx, 0.1)
	histogram.Record(ctx, 0.5)
	histogram.Record(ctx, 1.2)

	m, found := collectMetric(t, reader, "dispatch_duration_seconds")
	require.True(t, found, "Expected metric 'dispatch_duration_seconds' not found")
	assert.Equal(t, "s", m.Unit)
	hist := m.Data.(metricdata.Histogram[float64])
	assert.Equal(t, uint64(3), hist.DataPoints[0].Count)
}

func TestMetricsBuilder_Gauge(t *testing.T) {
	mp, reader := setupTestMeterProvider(t)
	defer mp.Shutdown(context.Background())

	meter := mp.Meter("test")
	builder := NewMetricsBuilder(meter, "app")

	value := int64(7)
	gauge, err := builder.Gauge("filters_registered", "Registered filters", func(ctx context.Context) (int64, error) {
		return value, nil
	})
	require.NoError(t, err)
	require.NotNil(t, gauge)

	// Callback runs on collection
	m, found := collectMetric(t, reader, "app_filters_registered")
	require.True(t, found)
	g := m.Data.(metricdata.Gauge[int64])
	assert.Equal(t, int64(7), g.DataPoints[0].Value)
}

func TestMetricsBuilder_EmptyNamespace(t *testing.T) {
	mp, reader := setupTestMeterProvider(t)
	defer mp.Shutdown(context.Background())

	meter := mp.Meter("test")
	builder := NewMetricsBuilder(meter, "") // Empty namespace

	counter, err := builder.Counter("dispatches_total", "Total dispatches")
	require.NoError(t, err)
	require.NotNil(t, counter)

	counter.Add(context.Background(), 1)

	// Name should carry no prefix
	_, found := collectMetric(t, reader, "dispatches_total")
	assert.True(t, found, "Expected metric 'dispatches_total' not found (without namespace prefix)")
}

func BenchmarkMetricsBuilder_CounterAdd(b *testing.B) {
	mp, _ := setupTestMeterProvider(&testing.T{})
	defer mp.Shutdown(context.Background())

	meter := mp.Meter("bench")
	builder := NewMetricsBuilder(meter, "app")
	counter, _ := builder.Counter("dispatches_total", "Total dispatches")

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		counter.Add(ctx, 1)
	}
}
