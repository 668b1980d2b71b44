package event

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Configure event component settings
type Config struct {
	Enabled      bool   `mapstructure:"enabled"`
	Metrics      bool   `mapstructure:"metrics"`
	MetricPrefix string `mapstructure:"metric_prefix"`
	LogDispatch  bool   `mapstructure:"log_dispatch"`
}

// Return default configuration
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		Metrics:      true,
		MetricPrefix: "flight",
	}
}

var metricPrefixPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validate checks field formats. MetricPrefix is only constrained when set;
// an empty prefix falls back to the default at metrics construction.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MetricPrefix,
			validation.Match(metricPrefixPattern).Error("must start with a lowercase letter and contain only lowercase letters, digits and underscores")),
	)
}
