package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// NewConfigDir writes content as config.yaml in a fresh temp directory and
// returns the directory, ready for config.NewLoader or application.NewBase.
func NewConfigDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	WriteConfigFile(t, dir, "config.yaml", content)
	return dir
}

// WriteConfigFile writes one named config file into dir and returns its path.
func WriteConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config file failed: %v", err)
	}
	return path
}

// MinimalConfigYAML returns a config body that logs into logDir with console
// output off and the dispatcher enabled without metrics.
func MinimalConfigYAML(logDir string) string {
	return "app:\n  name: test-app\nlogger:\n  base_log_dir: " + logDir +
		"\n  enable_console: false\nevent:\n  enabled: true\n  metrics: false\n"
}
