package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgslivre/flight/application"
)

// TestNewTestApplication test booting an application from inline config
func TestNewTestApplication(t *testing.T) {
	app, cleanup := NewTestApplication(t, MinimalConfigYAML(t.TempDir()))
	defer cleanup()

	require.NotNil(t, app.App)
	assert.Equal(t, application.StateSetup, app.App.GetState())

	d := app.Dispatcher(t)
	require.NotNil(t, d)

	d.Set("greet", func(name string) string { return "hello " + name })
	out, err := d.Run(context.Background(), "greet", "flight")
	require.NoError(t, err)
	assert.Equal(t, "hello flight", out)
}

// TestNewConfigDir test the temp config dir helper
func TestNewConfigDir(t *testing.T) {
	dir := NewConfigDir(t, "app:\n  name: dir-test\n")

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "dir-test")
}

// TestWriteConfigFile test writing a named config file
func TestWriteConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := WriteConfigFile(t, dir, "config.testing.yaml", "app:\n  env: testing\n")

	assert.Equal(t, filepath.Join(dir, "config.testing.yaml"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "env: testing")
}
