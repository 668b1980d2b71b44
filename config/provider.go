package config

import (
	"fmt"

	"github.com/samber/do/v2"
)

// ProvideLoaderOptions parameterizes ProvideLoader.
type ProvideLoaderOptions struct {
	ConfigPath   string      // configuration directory
	ConfigPrefix string      // environment variable prefix
	Flags        interface{} // parsed command-line flags
}

// ProvideLoader builds a *config.Loader provider. Config sits at the
// bottom of the graph and has no dependencies of its own.
//
//	do.Provide(injector, config.ProvideLoader(config.ProvideLoaderOptions{
//	    ConfigPath:   "./configs",
//	    ConfigPrefix: "FLIGHT",
//	}))
//	loader := do.MustInvoke[*config.Loader](injector)
func ProvideLoader(opts ProvideLoaderOptions) func(do.Injector) (*Loader, error) {
	return func(i do.Injector) (*Loader, error) {
		if opts.ConfigPath == "" {
			opts.ConfigPath = "./configs"
		}

		loader, err := NewLoaderBuilder().
			WithConfigPath(opts.ConfigPath).
			WithEnvPrefix(opts.ConfigPrefix).
			WithFlags(opts.Flags).
			Build()

		if err != nil {
			return nil, fmt.Errorf("config loader build failed: %w", err)
		}

		return loader, nil
	}
}

// ProvideLoaderValue registers an already-built Loader, mainly for tests.
func ProvideLoaderValue(loader *Loader) func(do.Injector) (*Loader, error) {
	return func(i do.Injector) (*Loader, error) {
		return loader, nil
	}
}
