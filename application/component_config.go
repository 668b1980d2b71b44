package application

import (
	"context"
	"fmt"

	"github.com/cgslivre/flight/component"
	"github.com/cgslivre/flight/config"
)

// ConfigComponent wraps the configuration loader in the component
// lifecycle and adapts it to the component.ConfigLoader contract other
// components read through.
type ConfigComponent struct {
	configPath   string
	configPrefix string
	flags        interface{}
	loader       *config.Loader
	appConfig    *AppConfig
}

// NewConfigComponent creates the configuration component.
func NewConfigComponent(configPath, configPrefix string, flags interface{}) *ConfigComponent {
	if configPath == "" {
		configPath = "../configs"
	}

	return &ConfigComponent{
		configPath:   configPath,
		configPrefix: configPrefix,
		flags:        flags,
	}
}

// Name returns the component name.
func (c *ConfigComponent) Name() string {
	return component.ComponentConfig
}

// DependsOn declares no dependencies; config sits at the bottom.
func (c *ConfigComponent) DependsOn() []string {
	return []string{}
}

// Init builds the loader from the conventional source set and caches the
// framework configuration.
func (c *ConfigComponent) Init(ctx context.Context, loader component.ConfigLoader) error {
	var err error
	c.loader, err = config.NewLoaderBuilder().
		WithConfigPath(c.configPath).
		WithEnvPrefix(c.configPrefix).
		WithFlags(c.flags).
		Build()

	if err != nil {
		return fmt.Errorf("load configuration failed: %w", err)
	}

	var appCfg AppConfig
	if err := c.loader.Unmarshal(&appCfg); err != nil {
		return fmt.Errorf("load AppConfig failed: %w", err)
	}
	appCfg.ApplyDefaults()
	c.appConfig = &appCfg

	return nil
}

// Start is a no-op; the loader serves reads without background work.
func (c *ConfigComponent) Start(ctx context.Context) error {
	return nil
}

// Stop is a no-op.
func (c *ConfigComponent) Stop(ctx context.Context) error {
	return nil
}

// GetLoader returns the configuration loader.
func (c *ConfigComponent) GetLoader() *config.Loader {
	return c.loader
}

// SetLoader injects an existing loader (DI mode reuses the provider's).
func (c *ConfigComponent) SetLoader(loader *config.Loader) {
	c.loader = loader
}

// GetAppConfig returns the cached framework configuration.
func (c *ConfigComponent) GetAppConfig() *AppConfig {
	return c.appConfig
}

// component.ConfigLoader implementation, delegated to the loader.

// Get returns the raw value for key.
func (c *ConfigComponent) Get(key string) interface{} {
	return c.loader.Get(key)
}

// Unmarshal decodes the section under key; an empty key decodes the whole
// configuration.
func (c *ConfigComponent) Unmarshal(key string, v interface{}) error {
	if key == "" {
		return c.loader.Unmarshal(v)
	}
	return c.loader.UnmarshalKey(key, v)
}

// GetString returns the string value for key.
func (c *ConfigComponent) GetString(key string) string {
	return c.loader.GetString(key)
}

// GetInt returns the integer value for key.
func (c *ConfigComponent) GetInt(key string) int {
	return c.loader.GetInt(key)
}

// GetBool returns the boolean value for key.
func (c *ConfigComponent) GetBool(key string) bool {
	return c.loader.GetBool(key)
}

// IsSet reports whether key is present.
func (c *ConfigComponent) IsSet(key string) bool {
	return c.loader.IsSet(key)
}
