package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const baseYAML = `app:
  name: test-app
  version: 1.0.0
event:
  enabled: true
  metric_prefix: flight
logger:
  level: info
`

const devYAML = `logger:
  level: debug
event:
  metric_prefix: flight_dev
`

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "config.yaml", baseYAML)

	tests := []struct {
		name        string
		filePath    string
		priority    int
		expectError bool
		expectKeys  []string
	}{
		{
			name:        "base config file",
			filePath:    configPath,
			priority:    10,
			expectError: false,
			expectKeys:  []string{"app.name", "event.enabled", "logger.level"},
		},
		{
			name:        "missing file is not an error",
			filePath:    filepath.Join(dir, "notexist.yaml"),
			priority:    10,
			expectError: false,
			expectKeys:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewFileSource(tt.filePath, tt.priority)

			if source.Name() != "file:"+tt.filePath {
				t.Errorf("Name() = %s, want %s", source.Name(), "file:"+tt.filePath)
			}

			if source.Priority() != tt.priority {
				t.Errorf("Priority() = %d, want %d", source.Priority(), tt.priority)
			}

			data, err := source.Load()
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			for _, key := range tt.expectKeys {
				if _, ok := data[key]; !ok {
					t.Errorf("expected key %s not found in data", key)
				}
			}
		})
	}
}

func TestFileSource_Values(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "config.yaml", baseYAML)

	source := NewFileSource(configPath, 10)
	data, err := source.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := data["app.name"]; got != "test-app" {
		t.Errorf("app.name = %v, want test-app", got)
	}
	if got := data["event.metric_prefix"]; got != "flight" {
		t.Errorf("event.metric_prefix = %v, want flight", got)
	}
	if got := data["event.enabled"]; got != true {
		t.Errorf("event.enabled = %v, want true", got)
	}
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]interface{}{
		"event": map[string]interface{}{
			"metrics": map[string]interface{}{
				"enabled": true,
			},
			"metric_prefix": "flight",
		},
		"app": "x",
	}

	flat := flattenMap("", nested)

	if flat["event.metrics.enabled"] != true {
		t.Errorf("event.metrics.enabled = %v, want true", flat["event.metrics.enabled"])
	}
	if flat["event.metric_prefix"] != "flight" {
		t.Errorf("event.metric_prefix = %v, want flight", flat["event.metric_prefix"])
	}
	if flat["app"] != "x" {
		t.Errorf("app = %v, want x", flat["app"])
	}
}

func TestEnvSource_PrefixScan(t *testing.T) {
	os.Setenv("FLIGHTTEST_LOGGER_LEVEL", "warn")
	os.Setenv("FLIGHTTEST_APP_NAME", "env-app")
	defer os.Unsetenv("FLIGHTTEST_LOGGER_LEVEL")
	defer os.Unsetenv("FLIGHTTEST_APP_NAME")

	source := NewEnvSource("FLIGHTTEST", 50)

	if source.Name() != "env:FLIGHTTEST" {
		t.Errorf("Name() = %s", source.Name())
	}
	if source.Priority() != 50 {
		t.Errorf("Priority() = %d", source.Priority())
	}

	data, err := source.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if data["logger.level"] != "warn" {
		t.Errorf("logger.level = %v, want warn", data["logger.level"])
	}
	if data["app.name"] != "env-app" {
		t.Errorf("app.name = %v, want env-app", data["app.name"])
	}
}

func TestEnvSource_Bindings(t *testing.T) {
	os.Setenv("FLIGHTTEST_LOG_LEVEL", "error")
	defer os.Unsetenv("FLIGHTTEST_LOG_LEVEL")

	source := NewEnvSource("FLIGHTTEST", 50)
	source.AddBinding("logger.level", "LOG_LEVEL")

	data, err := source.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if data["logger.level"] != "error" {
		t.Errorf("logger.level = %v, want error", data["logger.level"])
	}
}

func TestEnvSource_EmptyPrefixNoBindings(t *testing.T) {
	source := NewEnvSource("", 50)
	data, err := source.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty result, got %v", data)
	}
}

func TestFlagSource_Tagged(t *testing.T) {
	type testFlags struct {
		LogLevel string `config:"logger.level"`
		Prefix   string `config:"event.metric_prefix,telemetry.metrics.prefix"`
		Skipped  string `config:"-"`
		Empty    string `config:"app.name"`
	}

	source := NewFlagSource(&testFlags{
		LogLevel: "debug",
		Prefix:   "flightcli",
		Skipped:  "nope",
	}, 100)

	if source.Name() != "flags" {
		t.Errorf("Name() = %s", source.Name())
	}

	data, err := source.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if data["logger.level"] != "debug" {
		t.Errorf("logger.level = %v, want debug", data["logger.level"])
	}
	// Multi-key tags land on every key.
	if data["event.metric_prefix"] != "flightcli" {
		t.Errorf("event.metric_prefix = %v", data["event.metric_prefix"])
	}
	if data["telemetry.metrics.prefix"] != "flightcli" {
		t.Errorf("telemetry.metrics.prefix = %v", data["telemetry.metrics.prefix"])
	}
	// "-" drops the field, zero values are skipped.
	if _, ok := data["app.name"]; ok {
		t.Error("zero-valued field should not be mapped")
	}
	for k, v := range data {
		if v == "nope" {
			t.Errorf("skipped field leaked as %s", k)
		}
	}
}

func TestFlagSource_DefaultMapping(t *testing.T) {
	type untaggedFlags struct {
		AppName  string
		LogLevel string
		LogDir   string
	}

	source := NewFlagSource(&untaggedFlags{
		AppName:  "dispatch-cli",
		LogLevel: "warn",
		LogDir:   "/var/log/dispatch",
	}, 100)

	data, err := source.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if data["app.name"] != "dispatch-cli" {
		t.Errorf("app.name = %v", data["app.name"])
	}
	if data["logger.level"] != "warn" {
		t.Errorf("logger.level = %v", data["logger.level"])
	}
	if data["logger.base_log_dir"] != "/var/log/dispatch" {
		t.Errorf("logger.base_log_dir = %v", data["logger.base_log_dir"])
	}
}

func TestFlagSource_NilAndNonStruct(t *testing.T) {
	source := NewFlagSource(nil, 100)
	data, err := source.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty result for nil flags")
	}

	var nilPtr *struct{ X int }
	source = NewFlagSource(nilPtr, 100)
	data, err = source.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty result for nil pointer")
	}

	source = NewFlagSource("not a struct", 100)
	if _, err := source.Load(); err == nil {
		t.Error("expected error for non-struct flags")
	}
}

func TestConvertValue(t *testing.T) {
	tests := []struct {
		name       string
		value      interface{}
		targetKind reflect.Kind
		expected   interface{}
		expectErr  bool
	}{
		{"int to string", 123, reflect.String, "123", false},
		{"string to string", "hello", reflect.String, "hello", false},

		{"int to int", 123, reflect.Int, 123, false},
		{"int64 to int", int64(456), reflect.Int, int64(456), false},
		{"string to int", "789", reflect.Int, int64(789), false},
		{"invalid string to int", "abc", reflect.Int, nil, true},
		{"float to int", 3.14, reflect.Int, nil, true},

		{"bool to bool", true, reflect.Bool, true, false},
		{"string true to bool", "true", reflect.Bool, true, false},
		{"string false to bool", "false", reflect.Bool, false, false},
		{"invalid string to bool", "maybe", reflect.Bool, nil, true},
		{"int to bool", 1, reflect.Bool, nil, true},

		{"other kinds pass through", 123, reflect.Float32, 123, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ConvertValue(tt.value, tt.targetKind)

			if tt.expectErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("result = %v, want %v", result, tt.expected)
			}
		})
	}
}
