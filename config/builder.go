package config

import (
	"os"
	"path/filepath"
)

// LoaderBuilder assembles a Loader from the conventional source set.
type LoaderBuilder struct {
	configPath string
	envPrefix  string
	flags      interface{}
}

// NewLoaderBuilder creates a loader builder.
func NewLoaderBuilder() *LoaderBuilder {
	return &LoaderBuilder{}
}

// WithConfigPath sets the configuration directory.
func (b *LoaderBuilder) WithConfigPath(path string) *LoaderBuilder {
	b.configPath = path
	return b
}

// WithEnvPrefix sets the environment variable prefix.
func (b *LoaderBuilder) WithEnvPrefix(prefix string) *LoaderBuilder {
	b.envPrefix = prefix
	return b
}

// WithFlags sets the parsed command-line flags struct.
func (b *LoaderBuilder) WithFlags(flags interface{}) *LoaderBuilder {
	b.flags = flags
	return b
}

// Build wires the sources and loads them.
//
// Source set and priorities:
//
//	<configPath>/config.yaml   10
//	<configPath>/<env>.yaml    20
//	environment variables      50
//	command-line flags        100
func (b *LoaderBuilder) Build() (*Loader, error) {
	loader := NewLoader()

	if b.configPath != "" {
		configFile := filepath.Join(b.configPath, "config.yaml")
		loader.AddSource(NewFileSource(configFile, 10))
	}

	if b.configPath != "" {
		env := GetEnv()
		if env != "" {
			envFile := filepath.Join(b.configPath, env+".yaml")
			loader.AddSource(NewFileSource(envFile, 20))
		}
	}

	if b.envPrefix != "" {
		loader.AddSource(NewEnvSource(b.envPrefix, 50))
	}

	if b.flags != nil {
		loader.AddSource(NewFlagSource(b.flags, 100))
	}

	if err := loader.Load(); err != nil {
		return nil, err
	}

	return loader, nil
}

// GetEnv resolves the running environment, APP_ENV over ENV over "dev".
func GetEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "dev"
}
