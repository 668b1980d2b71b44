package config

import (
	"os"
	"testing"
)

func TestLoaderBuilder_Build(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "config.yaml", baseYAML)

	loader, err := NewLoaderBuilder().
		WithConfigPath(dir).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if loader.GetString("app.name") != "test-app" {
		t.Errorf("app.name = %s", loader.GetString("app.name"))
	}
}

func TestLoaderBuilder_EnvFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "config.yaml", baseYAML)
	writeTestFile(t, dir, "staging.yaml", "logger:\n  level: warn\n")

	os.Setenv("APP_ENV", "staging")
	defer os.Unsetenv("APP_ENV")

	loader, err := NewLoaderBuilder().
		WithConfigPath(dir).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if loader.GetString("logger.level") != "warn" {
		t.Errorf("logger.level = %s, want warn (from staging.yaml)", loader.GetString("logger.level"))
	}
	if loader.GetString("app.name") != "test-app" {
		t.Errorf("app.name = %s", loader.GetString("app.name"))
	}
}

func TestLoaderBuilder_AllSources(t *testing.T) {
	type testFlags struct {
		LogLevel string `config:"logger.level"`
	}

	dir := t.TempDir()
	writeTestFile(t, dir, "config.yaml", baseYAML)
	writeTestFile(t, dir, "dev.yaml", devYAML)

	os.Setenv("APP_ENV", "dev")
	os.Setenv("FLIGHTBUILD_APP_NAME", "from-env")
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("FLIGHTBUILD_APP_NAME")

	loader, err := NewLoaderBuilder().
		WithConfigPath(dir).
		WithEnvPrefix("FLIGHTBUILD").
		WithFlags(&testFlags{LogLevel: "fatal"}).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	// flags (100) > env (50) > dev.yaml (20) > config.yaml (10)
	if loader.GetString("logger.level") != "fatal" {
		t.Errorf("logger.level = %s, want fatal (flags win)", loader.GetString("logger.level"))
	}
	if loader.GetString("app.name") != "from-env" {
		t.Errorf("app.name = %s, want from-env (env beats files)", loader.GetString("app.name"))
	}
	if loader.GetString("event.metric_prefix") != "flight_dev" {
		t.Errorf("event.metric_prefix = %s, want flight_dev (dev.yaml beats config.yaml)", loader.GetString("event.metric_prefix"))
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("ENV")
	if GetEnv() != "dev" {
		t.Errorf("GetEnv() = %s, want dev", GetEnv())
	}

	os.Setenv("ENV", "prod")
	defer os.Unsetenv("ENV")
	if GetEnv() != "prod" {
		t.Errorf("GetEnv() = %s, want prod", GetEnv())
	}

	os.Setenv("APP_ENV", "staging")
	defer os.Unsetenv("APP_ENV")
	if GetEnv() != "staging" {
		t.Errorf("GetEnv() = %s, want staging (APP_ENV wins)", GetEnv())
	}
}
