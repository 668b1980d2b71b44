// Package component defines the component contracts. It sits at the bottom
// of the dependency graph and must not import any other package of this
// module.
package component

import "context"

// Component is the unified lifecycle contract. Every long-lived part of
// the framework (logging, telemetry, the event dispatcher) implements it.
//
// Lifecycle: Init -> Start -> Stop.
type Component interface {
	// Name returns the unique component identifier used in dependency
	// declarations and lookups.
	Name() string

	// DependsOn declares the names of components this one needs before
	// Init runs. A name may carry the "optional:" prefix; optional
	// dependencies are used when present and skipped when not
	// registered.
	DependsOn() []string

	// Init creates resources without starting outward activity. The
	// component reads its own configuration from loader.
	Init(ctx context.Context, loader ConfigLoader) error

	// Start begins the component's active work.
	Start(ctx context.Context) error

	// Stop releases resources. Implementations must be idempotent.
	Stop(ctx context.Context) error
}

// HealthChecker is optionally implemented by components that can report
// their own liveness. A nil return means healthy.
type HealthChecker interface {
	Check(ctx context.Context) error
	Name() string
}

// HealthCheckProvider exposes a component's health checker.
type HealthCheckProvider interface {
	GetHealthChecker() HealthChecker
}
