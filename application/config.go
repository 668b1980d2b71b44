package application

import (
	"github.com/cgslivre/flight/event"
	"github.com/cgslivre/flight/logger"
	"github.com/cgslivre/flight/telemetry"
)

// AppConfig is the framework-level configuration.
//
// Business configuration does not belong here; business components read
// their own sections from the ConfigLoader.
type AppConfig struct {
	// Required configuration - value type
	App AppInfo `mapstructure:"app"`

	// Optional configuration - pointers (defaulted or absent)
	Logger    *logger.ManagerConfig `mapstructure:"logger,omitempty"`
	Event     *event.Config         `mapstructure:"event,omitempty"`
	Telemetry *telemetry.Config     `mapstructure:"telemetry,omitempty"`
}

// AppInfo identifies the application.
type AppInfo struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
}

// ApplyDefaults fills zero-valued fields. Only sections that are present
// get defaults; a nil optional stays nil.
func (c *AppConfig) ApplyDefaults() {
	if c == nil {
		return
	}

	if c.App.Name == "" {
		c.App.Name = "flight-app"
	}
	if c.App.Version == "" {
		c.App.Version = "0.0.0"
	}

	if c.Logger != nil {
		c.Logger.ApplyDefaults()
	}
}
