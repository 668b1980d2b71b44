package config

// ConfigSource is implemented by every configuration data source (files,
// environment variables, command-line flags).
type ConfigSource interface {
	// Name identifies the source in logs and error messages.
	Name() string

	// Priority orders merging; higher values override lower ones.
	// Convention:
	//   defaults: 1, config file: 10, env-specific file: 20,
	//   environment variables: 50, command-line flags: 100.
	Priority() int

	// Load returns the source's data as a flat map with dot-separated
	// keys, e.g. "event.metric_prefix".
	Load() (map[string]interface{}, error)
}
