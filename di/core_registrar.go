// Package di provides dependency injection related functionality
package di

import (
	"github.com/samber/do/v2"
)

// RegisterCoreProviders registers all core component providers to the injector
// Register by dependency level, lazy loading mode
func RegisterCoreProviders(injector *do.RootScope, opts ConfigOptions) {
	// ═══════════════════════════════════════════════════════════
	// Layer 0: Config (no dependencies)
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideConfigLoader(opts))

	// ═══════════════════════════════════════════════════════════
	// Layer 1: Logger (depends on Config)
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideLoggerManager)
	do.Provide(injector, ProvideCtxLogger("flight"))

	// ═══════════════════════════════════════════════════════════
	// Layer 2: Telemetry (depends on Config, Logger)
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideTelemetryManager)

	// ═══════════════════════════════════════════════════════════
	// Layer 3: Event dispatch (depends on Config, Logger, Telemetry)
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideDoContainer)
	do.Provide(injector, ProvideDispatcher)
}
