package testutil

import (
	"testing"
	"time"

	"github.com/samber/do/v2"

	"github.com/cgslivre/flight/application"
	"github.com/cgslivre/flight/event"
)

// TestApplication
// Wraps a booted application instance for integration tests
type TestApplication struct {
	App *application.BaseApplication
}

// NewTestApplication boots a base application from an inline YAML
// configuration (written to a temp config dir) and runs Setup.
//
// Usage:
//
//	app, cleanup := testutil.NewTestApplication(t, testutil.MinimalConfigYAML(t.TempDir()))
//	defer cleanup()
//
//	d := app.Dispatcher(t)
//	d.Set("user.created", onUserCreated)
//
// Reusing BaseApplication.Setup keeps the test boot path identical to the
// production one.
func NewTestApplication(t *testing.T, configYAML string) (*TestApplication, func()) {
	t.Helper()

	dir := NewConfigDir(t, configYAML)
	app := application.NewBase(dir, "TEST", nil)
	if err := app.Setup(); err != nil {
		t.Fatalf("application setup failed: %v", err)
	}

	cleanup := func() {
		_ = app.Shutdown(5 * time.Second)
	}

	return &TestApplication{App: app}, cleanup
}

// Dispatcher resolves the event dispatcher from the application container.
func (ta *TestApplication) Dispatcher(t *testing.T) event.Dispatcher {
	t.Helper()
	d, err := do.Invoke[event.Dispatcher](ta.App.GetInjector())
	if err != nil {
		t.Fatalf("resolve dispatcher failed: %v", err)
	}
	return d
}
