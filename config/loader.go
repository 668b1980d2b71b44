package config

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

// Loader merges several configuration sources by priority and serves the
// result through a viper instance.
type Loader struct {
	sources      []ConfigSource
	mergedConfig map[string]interface{}
	v            *viper.Viper
	loadedFiles  []string
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{
		sources:      make([]ConfigSource, 0),
		mergedConfig: make(map[string]interface{}),
		v:            viper.New(),
		loadedFiles:  make([]string, 0),
	}
}

// AddSource appends a configuration source.
func (l *Loader) AddSource(source ConfigSource) {
	l.sources = append(l.sources, source)
}

// Load reads every source in priority order and merges the results,
// higher priority overriding lower.
func (l *Loader) Load() error {
	sort.Slice(l.sources, func(i, j int) bool {
		return l.sources[i].Priority() < l.sources[j].Priority()
	})

	l.mergedConfig = make(map[string]interface{})
	l.loadedFiles = l.loadedFiles[:0]
	for _, source := range l.sources {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("load source %s: %w", source.Name(), err)
		}

		if fileSource, ok := source.(*FileSource); ok {
			l.loadedFiles = append(l.loadedFiles, fileSource.path)
		}

		l.mergeFlat(data)
	}

	l.syncToViper()

	return nil
}

func (l *Loader) mergeFlat(data map[string]interface{}) {
	for key, value := range data {
		l.mergedConfig[key] = value
	}
}

func (l *Loader) syncToViper() {
	nested := l.unflattenMap(l.mergedConfig)

	l.v = viper.New()
	for key, value := range nested {
		l.v.Set(key, value)
	}
}

// unflattenMap rebuilds nesting from dot-separated keys:
// {"event.metric_prefix": "flight"} -> {"event": {"metric_prefix": "flight"}}.
func (l *Loader) unflattenMap(flat map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for key, value := range flat {
		l.setNestedValue(result, key, value)
	}

	return result
}

func (l *Loader) setNestedValue(m map[string]interface{}, key string, value interface{}) {
	keys := splitKey(key)
	if len(keys) == 0 {
		return
	}

	if len(keys) == 1 {
		m[keys[0]] = value
		return
	}

	current := m
	for i := 0; i < len(keys)-1; i++ {
		k := keys[i]
		if _, ok := current[k]; !ok {
			current[k] = make(map[string]interface{})
		}

		if nested, ok := current[k].(map[string]interface{}); ok {
			current = nested
		} else {
			// A scalar at an intermediate key loses to the deeper path.
			newMap := make(map[string]interface{})
			current[k] = newMap
			current = newMap
		}
	}

	current[keys[len(keys)-1]] = value
}

func splitKey(key string) []string {
	if key == "" {
		return []string{}
	}

	result := make([]string, 0)
	current := ""

	for _, ch := range key {
		if ch == '.' {
			if current != "" {
				result = append(result, current)
				current = ""
			}
		} else {
			current += string(ch)
		}
	}

	if current != "" {
		result = append(result, current)
	}

	return result
}

// Unmarshal decodes the whole merged configuration into v.
func (l *Loader) Unmarshal(v interface{}) error {
	return l.v.Unmarshal(v)
}

// UnmarshalKey decodes the section under key into v.
func (l *Loader) UnmarshalKey(key string, v interface{}) error {
	return l.v.UnmarshalKey(key, v)
}

// Get returns the raw value for key.
func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

// GetString returns the string value for key.
func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

// GetInt returns the integer value for key.
func (l *Loader) GetInt(key string) int {
	return l.v.GetInt(key)
}

// GetBool returns the boolean value for key.
func (l *Loader) GetBool(key string) bool {
	return l.v.GetBool(key)
}

// IsSet reports whether key is present in the merged configuration.
func (l *Loader) IsSet(key string) bool {
	return l.v.IsSet(key)
}

// AllSettings returns the nested configuration map.
func (l *Loader) AllSettings() map[string]interface{} {
	return l.v.AllSettings()
}

// GetLoadedFiles lists the file sources that contributed.
func (l *Loader) GetLoadedFiles() []string {
	return l.loadedFiles
}

// GetViper exposes the underlying viper instance.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// Reload re-reads every source.
func (l *Loader) Reload() error {
	return l.Load()
}
