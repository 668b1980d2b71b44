// Package testutil provides one-stop harnesses for dispatcher and
// application tests so business packages do not repeat the wiring.
package testutil

import (
	"testing"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/cgslivre/flight/callable"
	"github.com/cgslivre/flight/event"
	"github.com/cgslivre/flight/logger"
)

// DispatcherTestContext
// Encapsulates the basic components required for dispatcher tests
type DispatcherTestContext struct {
	Logger     *logger.TestCtxLogger
	Types      *callable.Types
	Metrics    *event.Metrics
	Dispatcher event.Dispatcher
}

// DispatcherTestOptions dispatcher test options
type DispatcherTestOptions struct {
	// Config custom dispatcher configuration (optional, defaults to enabled with metrics off)
	Config *event.Config

	// Types custom callable type registry (optional, default builds a fresh isolated registry)
	Types *callable.Types

	// Provider container handler installed on the dispatcher (optional)
	Provider interface{}

	// SetupFunc custom initialization function (optional, called after basic initialization)
	// For registering the events and filters of the package under test
	SetupFunc func(*DispatcherTestContext) error
}

// NewDispatcherTestContext creates a dispatcher test context (one-stop initialization)
//
// Usage:
//
//	tc, cleanup := testutil.NewDispatcherTestContext(t, testutil.DispatcherTestOptions{})
//	defer cleanup()
//
//	tc.Dispatcher.Set("user.created", sendWelcome)
//	out, err := tc.Dispatcher.Run(context.Background(), "user.created", user)
//
// The dispatcher logs through an in-memory TestCtxLogger, so tests can
// assert on dispatch logs with tc.Logger.HasLog / HasLogWithField.
func NewDispatcherTestContext(t *testing.T, opts DispatcherTestOptions) (*DispatcherTestContext, func()) {
	t.Helper()

	// 1. Resolve configuration (metrics default off, tests opt in)
	cfg := event.DefaultConfig()
	cfg.Metrics = false
	if opts.Config != nil {
		cfg = *opts.Config
	}

	// 2. Build an isolated callable type registry (if not provided)
	types := opts.Types
	if types == nil {
		types = callable.NewTypes()
	}

	// 3. Create the in-memory logger
	testLogger := logger.NewTestCtxLogger()

	dispatcherOpts := []event.DispatcherOption{
		event.WithTypes(types),
		event.WithLogger(testLogger),
		event.WithDispatchLogging(cfg.LogDispatch),
	}

	// 4. Register dispatch metrics on a noop meter (if enabled)
	var metrics *event.Metrics
	if cfg.Metrics {
		metrics = event.NewMetrics(event.MetricsConfig{Enabled: true, Prefix: cfg.MetricPrefix})
		if err := metrics.RegisterMetrics(noop.NewMeterProvider().Meter("testutil")); err != nil {
			t.Fatalf("register dispatch metrics failed: %v", err)
		}
		dispatcherOpts = append(dispatcherOpts, event.WithMetrics(metrics))
	}

	// 5. Create the dispatcher
	d := event.NewDispatcher(dispatcherOpts...)

	if opts.Provider != nil {
		if err := d.SetContainerHandler(opts.Provider); err != nil {
			t.Fatalf("install container handler failed: %v", err)
		}
	}

	// 6. Create context
	tc := &DispatcherTestContext{
		Logger:     testLogger,
		Types:      types,
		Metrics:    metrics,
		Dispatcher: d,
	}

	// 7. Execute custom initialization function
	if opts.SetupFunc != nil {
		if err := opts.SetupFunc(tc); err != nil {
			t.Fatalf("dispatcher test setup failed: %v", err)
		}
	}

	// 8. Return the cleanup function
	cleanup := func() {
		tc.Dispatcher.Reset()
		tc.Logger.Clear()
	}

	return tc, cleanup
}
