// Package di provides dependency injection and lifecycle management
package di

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/cgslivre/flight/event"
	"github.com/cgslivre/flight/logger"
	"github.com/cgslivre/flight/telemetry"
)

// StartCoreComponents forces the lazy core graph so configuration problems
// surface at startup instead of on first use. Init/Start logic lives in
// each component's Provider; this only triggers it and reports readiness.
func StartCoreComponents(ctx context.Context, injector *do.RootScope, log *logger.CtxZapLogger) error {
	// Telemetry - the provider starts the manager
	tm, err := do.Invoke[*telemetry.Manager](injector)
	if err != nil {
		return fmt.Errorf("telemetry startup failed: %w", err)
	}
	if tm.IsEnabled() {
		log.DebugCtx(ctx, "✅ Telemetry component ready")
	}

	// Event dispatcher - nil when disabled
	dispatcher, err := do.Invoke[event.Dispatcher](injector)
	if err != nil {
		return fmt.Errorf("event dispatcher startup failed: %w", err)
	}
	if dispatcher == nil {
		log.DebugCtx(ctx, "⏭️  Event dispatch disabled, skipping")
	} else {
		log.DebugCtx(ctx, "✅ Event dispatcher ready")
	}

	return nil
}
