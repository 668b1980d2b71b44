package di

import (
	"context"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/do/v2"

	"github.com/cgslivre/flight/config"
	"github.com/cgslivre/flight/event"
	"github.com/cgslivre/flight/logger"
	"github.com/cgslivre/flight/telemetry"
)

// ============================================
// Foundation providers (Config, Logger)
// Everything else in the graph depends on these
// ============================================

// ConfigOptions parameterizes the config loader provider.
type ConfigOptions struct {
	ConfigPath   string      // configuration directory
	ConfigPrefix string      // environment variable prefix
	Flags        interface{} // parsed command-line flags
}

var envPrefixPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// Validate checks the option set. Match skips empty values, so an unset
// prefix stays valid.
func (o ConfigOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.ConfigPrefix,
			validation.Match(envPrefixPattern).Error("must be uppercase letters, digits and underscores, starting with a letter"),
		),
	)
}

// ProvideConfigLoader creates the *config.Loader provider.
// Bottom of the graph, no dependencies.
func ProvideConfigLoader(opts ConfigOptions) func(do.Injector) (*config.Loader, error) {
	return func(i do.Injector) (*config.Loader, error) {
		if err := opts.Validate(); err != nil {
			return nil, fmt.Errorf("config options invalid: %w", err)
		}

		return config.ProvideLoader(config.ProvideLoaderOptions{
			ConfigPath:   opts.ConfigPath,
			ConfigPrefix: opts.ConfigPrefix,
			Flags:        opts.Flags,
		})(i)
	}
}

// ProvideLoggerManager creates the *logger.Manager provider.
// Depends on config.Loader for the "logger" key; falls back to defaults
// when the loader or the key is unavailable.
func ProvideLoggerManager(i do.Injector) (*logger.Manager, error) {
	loader, err := do.Invoke[*config.Loader](i)
	if err != nil {
		return logger.NewManager(logger.DefaultManagerConfig()), nil
	}

	var loggerCfg logger.ManagerConfig
	if err := loader.UnmarshalKey("logger", &loggerCfg); err != nil {
		return logger.NewManager(logger.DefaultManagerConfig()), nil
	}

	loggerCfg.ApplyDefaults()
	return logger.NewManager(loggerCfg), nil
}

// ProvideCtxLogger creates a named *logger.CtxZapLogger provider factory
// so application layers can request a module-scoped logger.
func ProvideCtxLogger(moduleName string) func(do.Injector) (*logger.CtxZapLogger, error) {
	return func(i do.Injector) (*logger.CtxZapLogger, error) {
		mgr, err := do.Invoke[*logger.Manager](i)
		if err != nil {
			// Fall back to the global logger
			return logger.GetLogger(moduleName), nil
		}
		return mgr.GetLogger(moduleName), nil
	}
}

// ============================================
// Telemetry provider
// Depends on Config, Logger
// ============================================

// ProvideTelemetryManager creates the *telemetry.Manager provider and
// starts it. The manager is returned even when telemetry is disabled so
// consumers get no-op tracers instead of resolution errors; do calls
// its Shutdown on injector shutdown.
func ProvideTelemetryManager(i do.Injector) (*telemetry.Manager, error) {
	cfg := telemetry.DefaultConfig()

	loader, err := do.Invoke[*config.Loader](i)
	if err == nil && loader.IsSet("telemetry") {
		if err := loader.UnmarshalKey("telemetry", &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal telemetry config failed: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate telemetry config failed: %w", err)
	}

	log, _ := do.Invoke[*logger.CtxZapLogger](i)
	mgr := telemetry.NewManager(cfg, log)

	if err := mgr.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("start telemetry failed: %w", err)
	}

	return mgr, nil
}

// ============================================
// Event providers
// Depends on Config, Logger, Telemetry (optional), DoContainer
// ============================================

// ProvideDoContainer creates the *DoContainer provider, the bridge the
// dispatcher consults when a method target names an exposed service.
func ProvideDoContainer(i do.Injector) (*DoContainer, error) {
	return NewDoContainer(i), nil
}

// ProvideDispatcher creates the event.Dispatcher provider. Disabled
// configuration yields a nil dispatcher, matching the component's
// behavior. When telemetry is up, dispatch metrics register on its
// meter and each Run gets a span.
func ProvideDispatcher(i do.Injector) (event.Dispatcher, error) {
	cfg := event.DefaultConfig()

	loader, err := do.Invoke[*config.Loader](i)
	if err == nil && loader.IsSet("event") {
		if err := loader.UnmarshalKey("event", &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal event config failed: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate event config failed: %w", err)
	}

	if !cfg.Enabled {
		return nil, nil // event dispatch not enabled
	}

	log, _ := do.Invoke[*logger.CtxZapLogger](i)
	if log == nil {
		log = logger.GetLogger("flight")
	}

	opts := []event.DispatcherOption{
		event.WithLogger(log),
		event.WithDispatchLogging(cfg.LogDispatch),
	}

	// Telemetry is optional: without it the dispatcher runs unobserved.
	tm, _ := do.Invoke[*telemetry.Manager](i)

	if cfg.Metrics {
		metrics := event.NewMetrics(event.MetricsConfig{
			Enabled: true,
			Prefix:  cfg.MetricPrefix,
		})
		if tm != nil && tm.GetMetricsManager() != nil && tm.GetMetricsManager().IsEventMetricsEnabled() {
			if err := tm.GetMetricsManager().RegisterProvider(metrics); err != nil {
				return nil, fmt.Errorf("register event metrics failed: %w", err)
			}
		}
		opts = append(opts, event.WithMetrics(metrics))
	}

	if tm != nil && tm.IsEnabled() {
		opts = append(opts, event.WithTracer(tm.GetTracer("event")))
	}

	dispatcher := event.NewDispatcher(opts...)

	// Hook up do-provided services for "Type->Method" targets.
	if container, err := do.Invoke[*DoContainer](i); err == nil {
		if err := dispatcher.SetContainerHandler(container); err != nil {
			return nil, fmt.Errorf("install container handler failed: %w", err)
		}
	}

	return dispatcher, nil
}
