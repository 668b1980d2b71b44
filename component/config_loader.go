package component

// ConfigLoader gives components uniform read access to configuration
// without tying them to a concrete config structure.
type ConfigLoader interface {
	// Get returns the raw value for key (e.g. "event.metric_prefix").
	Get(key string) interface{}

	// Unmarshal decodes the section under key into v.
	//
	//	var cfg event.Config
	//	if err := loader.Unmarshal("event", &cfg); err != nil {
	//	    return err
	//	}
	Unmarshal(key string, v interface{}) error

	// GetString returns the string value for key.
	GetString(key string) string

	// GetInt returns the integer value for key.
	GetInt(key string) int

	// GetBool returns the boolean value for key.
	GetBool(key string) bool

	// IsSet reports whether key is present.
	IsSet(key string) bool
}
