// Package application provides the generic application bootstrap framework.
// BaseApplication is the core abstraction shared by every application type.
package application

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	"go.uber.org/zap"

	"github.com/cgslivre/flight/config"
	"github.com/cgslivre/flight/di"
	"github.com/cgslivre/flight/logger"
)

// BaseApplication is the application core. Component lifecycles are fully
// managed through samber/do: providers create and start components lazily,
// injector shutdown stops them.
type BaseApplication struct {
	// ═══════════════════════════════════════════════════════════
	// DI container (the only component management path)
	// ═══════════════════════════════════════════════════════════
	injector *do.RootScope

	// Configuration
	configPath   string
	configPrefix string
	appConfig    *AppConfig

	// Core component cache (fast access)
	logger       *logger.CtxZapLogger
	configLoader *config.Loader

	// Lifecycle
	ctx       context.Context
	cancel    context.CancelFunc
	state     AppState
	mu        sync.RWMutex
	startTime time.Time

	// Application metadata
	version string

	// Callbacks
	onSetup        func(*BaseApplication) error
	onReady        func(*BaseApplication) error
	onConfigReload func(*config.Loader)
	onShutdown     func(context.Context) error
}

// AppState is the application lifecycle state.
type AppState int

const (
	StateInit AppState = iota
	StateSetup
	StateRunning
	StateStopping
	StateStopped
)

// String returns the state name.
func (s AppState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateSetup:
		return "Setup"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// NewBase creates the base application instance. All core components are
// registered as do providers; config and logger are resolved eagerly since
// everything else reports through them.
func NewBase(configPath, configPrefix string, flags interface{}) *BaseApplication {
	ctx, cancel := context.WithCancel(context.Background())
	injector := do.New()

	// Core component providers are managed centrally in di/core_registrar.go
	di.RegisterCoreProviders(injector, di.ConfigOptions{
		ConfigPath:   configPath,
		ConfigPrefix: configPrefix,
		Flags:        flags,
	})

	configLoader := do.MustInvoke[*config.Loader](injector)
	coreLogger := do.MustInvoke[*logger.CtxZapLogger](injector)

	var appCfg AppConfig
	if err := configLoader.Unmarshal(&appCfg); err != nil {
		panic(fmt.Sprintf("load AppConfig failed: %v", err))
	}
	appCfg.ApplyDefaults()

	coreLogger.DebugCtx(ctx, "✅ Base application initialized",
		zap.String("configPath", configPath),
		zap.String("app", appCfg.App.Name))

	return &BaseApplication{
		injector:     injector,
		configPath:   configPath,
		configPrefix: configPrefix,
		logger:       coreLogger,
		configLoader: configLoader,
		appConfig:    &appCfg,
		ctx:          ctx,
		cancel:       cancel,
		state:        StateInit,
		startTime:    time.Now(),
	}
}

// NewBaseWithDefaults creates the base application with the conventional
// configuration path ../configs/{appName} and the APP env prefix.
func NewBaseWithDefaults(appName string) *BaseApplication {
	return NewBase("../configs/"+appName, "APP", nil)
}

// WithVersion sets the application version (chainable). The version is
// logged on startup.
func (b *BaseApplication) WithVersion(version string) *BaseApplication {
	b.version = version
	return b
}

// GetVersion returns the application version.
func (b *BaseApplication) GetVersion() string {
	return b.version
}

// GetStartupTimeMs returns milliseconds elapsed since NewBase.
func (b *BaseApplication) GetStartupTimeMs() int64 {
	return time.Since(b.startTime).Milliseconds()
}

// Setup initializes all components. Providers run Init+Start on first
// invoke; Setup forces the core graph and then triggers the OnSetup
// callback.
func (b *BaseApplication) Setup() error {
	b.setState(StateSetup)

	if err := di.StartCoreComponents(b.ctx, b.injector, b.logger); err != nil {
		return fmt.Errorf("start core components failed: %w", err)
	}

	if b.onSetup != nil {
		if err := b.onSetup(b); err != nil {
			return fmt.Errorf("onSetup failed: %w", err)
		}
	}

	return nil
}

// Shutdown closes the application gracefully. The do container shuts down
// every component that implements a shutdown contract.
func (b *BaseApplication) Shutdown(timeout time.Duration) error {
	b.setState(StateStopping)

	log := b.MustGetLogger()
	log.DebugCtx(b.ctx, "🔻 Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// 1. Business-layer cleanup first
	if b.onShutdown != nil {
		if err := b.onShutdown(ctx); err != nil {
			log.ErrorCtx(ctx, "OnShutdown callback failed", zap.Error(err))
		}
	}

	// 2. DI container teardown stops all managed components
	if err := b.injector.Shutdown(); err != nil {
		log.ErrorCtx(ctx, "DI container shutdown failed", zap.Error(err))
	}

	log.DebugCtx(ctx, "✅ All components stopped")
	b.setState(StateStopped)
	return nil
}

// WaitShutdown blocks until SIGINT (Ctrl+C) or SIGTERM arrives. The first
// signal starts the graceful shutdown; a second one forces immediate exit.
func (b *BaseApplication) WaitShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log := b.MustGetLogger()

	select {
	case sig := <-quit:
		log.DebugCtx(b.ctx, "Shutdown signal received (graceful shutdown)", zap.String("signal", sig.String()))
		log.DebugCtx(b.ctx, "💡 Tip: Press Ctrl+C again to force exit immediately")

		// Cancel the root context so everything hanging off it unwinds
		b.cancel()

		go func() {
			sig := <-quit
			log.WarnCtx(context.Background(), "⚠️  Second signal received, forcing exit!", zap.String("signal", sig.String()))
			os.Exit(1)
		}()

	case <-b.ctx.Done():
		log.DebugCtx(context.Background(), "Context cancelled, starting graceful shutdown")
	}
}

// Cancel triggers shutdown programmatically (tests, supervisors).
func (b *BaseApplication) Cancel() {
	b.cancel()
}

// ReloadConfig re-reads every configuration source, refreshes the cached
// AppConfig and fires the OnConfigReload callback.
func (b *BaseApplication) ReloadConfig() error {
	if err := b.configLoader.Reload(); err != nil {
		return fmt.Errorf("config reload failed: %w", err)
	}

	var appCfg AppConfig
	if err := b.configLoader.Unmarshal(&appCfg); err != nil {
		return fmt.Errorf("reload AppConfig failed: %w", err)
	}
	appCfg.ApplyDefaults()

	b.mu.Lock()
	b.appConfig = &appCfg
	b.mu.Unlock()

	if b.onConfigReload != nil {
		b.onConfigReload(b.configLoader)
	}

	b.logger.DebugCtx(b.ctx, "✅ Configuration reloaded")
	return nil
}

// OnSetup registers the Setup-phase callback.
func (b *BaseApplication) OnSetup(fn func(*BaseApplication) error) *BaseApplication {
	b.onSetup = fn
	return b
}

// OnReady registers the startup-complete callback (application-type
// specific initialization).
func (b *BaseApplication) OnReady(fn func(*BaseApplication) error) *BaseApplication {
	b.onReady = fn
	return b
}

// OnConfigReload registers the configuration-update callback.
func (b *BaseApplication) OnConfigReload(fn func(*config.Loader)) *BaseApplication {
	b.onConfigReload = fn
	return b
}

// OnShutdown registers the pre-shutdown callback (resource cleanup).
func (b *BaseApplication) OnShutdown(fn func(context.Context) error) *BaseApplication {
	b.onShutdown = fn
	return b
}

// MustGetLogger returns the cached logger instance.
func (b *BaseApplication) MustGetLogger() *logger.CtxZapLogger {
	if b.logger == nil {
		panic("logger not initialized, please call Setup() first")
	}
	return b.logger
}

// GetConfigLoader returns the cached configuration loader.
func (b *BaseApplication) GetConfigLoader() *config.Loader {
	if b.configLoader == nil {
		panic("config loader not initialized, please call Setup() first")
	}
	return b.configLoader
}

// GetInjector returns the samber/do injector.
func (b *BaseApplication) GetInjector() *do.RootScope {
	return b.injector
}

// LoadAppConfig returns the cached framework configuration.
func (b *BaseApplication) LoadAppConfig() (*AppConfig, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.appConfig == nil {
		return nil, fmt.Errorf("AppConfig not initialized")
	}
	return b.appConfig, nil
}

// GetState returns the current state (thread safe).
func (b *BaseApplication) GetState() AppState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Context returns the application root context.
func (b *BaseApplication) Context() context.Context {
	return b.ctx
}

// setState transitions the state (thread safe).
func (b *BaseApplication) setState(state AppState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	oldState := b.state
	b.state = state

	if b.logger != nil {
		b.logger.DebugCtx(b.ctx, "State changed",
			zap.String("from", oldState.String()),
			zap.String("to", state.String()))
	}
}
