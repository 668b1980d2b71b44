package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestFlattenMap(t *testing.T) {
	t.Run("flat map passes through", func(t *testing.T) {
		result := flattenMap(map[string]interface{}{
			"env": "test",
		}, "")
		assert.Equal(t, map[string]string{"env": "test"}, result)
	})

	t.Run("nested maps become dotted keys", func(t *testing.T) {
		result := flattenMap(map[string]interface{}{
			"deployment": map[string]interface{}{
				"environment": "staging",
				"region":      "eu-west-1",
			},
		}, "")
		assert.Equal(t, "staging", result["deployment.environment"])
		assert.Equal(t, "eu-west-1", result["deployment.region"])
	})

	t.Run("non-string values are stringified", func(t *testing.T) {
		result := flattenMap(map[string]interface{}{
			"replicas": 3,
			"canary":   true,
		}, "")
		assert.Equal(t, "3", result["replicas"])
		assert.Equal(t, "true", result["canary"])
	})

	t.Run("prefix applies to every key", func(t *testing.T) {
		result := flattenMap(map[string]interface{}{"zone": "a"}, "cluster")
		assert.Equal(t, "a", result["cluster.zone"])
	})
}

func TestCreateSampler(t *testing.T) {
	sampler := func(typ string, ratio float64) sdktrace.Sampler {
		m := NewManager(Config{
			Sampler: SamplerConfig{Type: typ, Ratio: ratio},
		}, nil)
		return m.createSampler()
	}

	t.Run("always_on", func(t *testing.T) {
		assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler("always_on", 0).Description())
	})

	t.Run("always_off", func(t *testing.T) {
		assert.Equal(t, sdktrace.NeverSample().Description(), sampler("always_off", 0).Description())
	})

	t.Run("trace_id_ratio", func(t *testing.T) {
		assert.Equal(t, sdktrace.TraceIDRatioBased(0.5).Description(), sampler("trace_id_ratio", 0.5).Description())
	})

	t.Run("unknown type falls back to parent based", func(t *testing.T) {
		want := sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()
		assert.Equal(t, want, sampler("whatever", 0).Description())
	})
}

func TestCreateResource(t *testing.T) {
	t.Run("carries service identity and custom attributes", func(t *testing.T) {
		t.Setenv("DEPLOY_REGION", "eu-central-1")

		m := NewManager(Config{
			ServiceName:    "dispatcher",
			ServiceVersion: "2.1.0",
			ResourceAttrs: map[string]interface{}{
				"deployment": map[string]interface{}{
					"region": "$DEPLOY_REGION",
				},
			},
		}, nil)

		res, err := m.createResource(context.Background())
		require.NoError(t, err)

		attrs := make(map[string]string)
		for _, kv := range res.Attributes() {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
		assert.Equal(t, "dispatcher", attrs["service.name"])
		assert.Equal(t, "2.1.0", attrs["service.version"])
		assert.Equal(t, "eu-central-1", attrs["deployment.region"])
	})
}
