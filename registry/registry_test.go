package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgslivre/flight/application"
	"github.com/cgslivre/flight/component"
	"github.com/cgslivre/flight/event"
	"github.com/cgslivre/flight/logger"
	"github.com/cgslivre/flight/registry"
)

// fakeComponent records its lifecycle calls into a shared trace.
type fakeComponent struct {
	name    string
	deps    []string
	mu      *sync.Mutex
	trace   *[]string
	initErr error
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) DependsOn() []string { return f.deps }

func (f *fakeComponent) Init(ctx context.Context, loader component.ConfigLoader) error {
	f.record("init:" + f.name)
	return f.initErr
}

func (f *fakeComponent) Start(ctx context.Context) error {
	f.record("start:" + f.name)
	return nil
}

func (f *fakeComponent) Stop(ctx context.Context) error {
	f.record("stop:" + f.name)
	return nil
}

func (f *fakeComponent) record(step string) {
	if f.trace == nil {
		return
	}
	f.mu.Lock()
	*f.trace = append(*f.trace, step)
	f.mu.Unlock()
}

// fakeConfig satisfies both Component and ConfigLoader so lifecycle tests
// run without real configuration files.
type fakeConfig struct {
	*fakeComponent
}

func newFakeConfig(mu *sync.Mutex, trace *[]string) *fakeConfig {
	return &fakeConfig{
		fakeComponent: &fakeComponent{name: component.ComponentConfig, mu: mu, trace: trace},
	}
}

func (f *fakeConfig) Get(key string) interface{} { return nil }

func (f *fakeConfig) Unmarshal(key string, v interface{}) error { return nil }

func (f *fakeConfig) GetString(key string) string { return "" }

func (f *fakeConfig) GetInt(key string) int { return 0 }

func (f *fakeConfig) GetBool(key string) bool { return false }

func (f *fakeConfig) IsSet(key string) bool { return false }

// TestRegistry_Register test component registration
func TestRegistry_Register(t *testing.T) {
	t.Run("register succeeds", func(t *testing.T) {
		reg := registry.NewRegistry()
		err := reg.Register(&fakeComponent{name: "alpha"})
		require.NoError(t, err)
		assert.True(t, reg.Has("alpha"))
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register(&fakeComponent{name: "alpha"}))
		err := reg.Register(&fakeComponent{name: "alpha"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("nil component rejected", func(t *testing.T) {
		reg := registry.NewRegistry()
		err := reg.Register(nil)
		require.Error(t, err)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		reg := registry.NewRegistry()
		err := reg.Register(&fakeComponent{name: ""})
		require.Error(t, err)
	})
}

// TestRegistry_MustRegister test fail-fast registration
func TestRegistry_MustRegister(t *testing.T) {
	reg := registry.NewRegistry()
	reg.MustRegister(&fakeComponent{name: "alpha"})

	assert.Panics(t, func() {
		reg.MustRegister(&fakeComponent{name: "alpha"})
	})
}

// TestRegistry_GetAndHas test component lookup
func TestRegistry_GetAndHas(t *testing.T) {
	reg := registry.NewRegistry()
	comp := &fakeComponent{name: "alpha"}
	require.NoError(t, reg.Register(comp))

	got, ok := reg.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, component.Component(comp), got)

	_, ok = reg.Get("missing")
	assert.False(t, ok)

	assert.True(t, reg.Has("alpha"))
	assert.False(t, reg.Has("missing"))

	assert.Panics(t, func() {
		reg.MustGet("missing")
	})
}

// TestRegistry_GetTyped test typed component lookup
func TestRegistry_GetTyped(t *testing.T) {
	reg := registry.NewRegistry()
	mu := &sync.Mutex{}
	cfg := newFakeConfig(mu, nil)
	require.NoError(t, reg.Register(cfg))

	typed, ok := registry.GetTyped[*fakeConfig](reg, component.ComponentConfig)
	assert.True(t, ok)
	assert.Equal(t, cfg, typed)

	_, ok = registry.GetTyped[*fakeComponent](reg, component.ComponentConfig)
	assert.False(t, ok)

	_, ok = registry.GetTyped[*fakeConfig](reg, "missing")
	assert.False(t, ok)

	assert.Panics(t, func() {
		registry.MustGetTyped[*fakeConfig](reg, "missing")
	})
}

// TestRegistry_Resolve test dependency ordering
func TestRegistry_Resolve(t *testing.T) {
	t.Run("dependency order", func(t *testing.T) {
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register(&fakeComponent{name: "event", deps: []string{"config", "logger"}}))
		require.NoError(t, reg.Register(&fakeComponent{name: "config"}))
		require.NoError(t, reg.Register(&fakeComponent{name: "logger", deps: []string{"config"}}))

		order, err := reg.Resolve()
		require.NoError(t, err)
		require.Len(t, order, 3)

		pos := make(map[string]int, len(order))
		for i, comp := range order {
			pos[comp.Name()] = i
		}
		assert.Less(t, pos["config"], pos["logger"])
		assert.Less(t, pos["logger"], pos["event"])
	})

	t.Run("missing dependency", func(t *testing.T) {
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register(&fakeComponent{name: "alpha", deps: []string{"ghost"}}))

		_, err := reg.Resolve()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "depends on unregistered")
	})

	t.Run("optional dependency skipped when absent", func(t *testing.T) {
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register(&fakeComponent{name: "alpha", deps: []string{"optional:telemetry"}}))

		order, err := reg.Resolve()
		require.NoError(t, err)
		assert.Len(t, order, 1)
	})

	t.Run("optional dependency ordered when present", func(t *testing.T) {
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register(&fakeComponent{name: "alpha", deps: []string{"optional:telemetry"}}))
		require.NoError(t, reg.Register(&fakeComponent{name: "telemetry"}))

		order, err := reg.Resolve()
		require.NoError(t, err)
		require.Len(t, order, 2)
		assert.Equal(t, "telemetry", order[0].Name())
		assert.Equal(t, "alpha", order[1].Name())
	})

	t.Run("cycle detected", func(t *testing.T) {
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register(&fakeComponent{name: "a", deps: []string{"b"}}))
		require.NoError(t, reg.Register(&fakeComponent{name: "b", deps: []string{"a"}}))

		_, err := reg.Resolve()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle")
	})
}

// TestRegistry_Init test layered initialization
func TestRegistry_Init(t *testing.T) {
	t.Run("config component required", func(t *testing.T) {
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register(&fakeComponent{name: "alpha"}))

		err := reg.Init(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config component not registered")
	})

	t.Run("init runs config first, stop runs reversed", func(t *testing.T) {
		mu := &sync.Mutex{}
		trace := make([]string, 0, 16)

		reg := registry.NewRegistry()
		reg.MustRegister(newFakeConfig(mu, &trace))
		reg.MustRegister(&fakeComponent{name: "logger", deps: []string{"config"}, mu: mu, trace: &trace})
		reg.MustRegister(&fakeComponent{name: "event", deps: []string{"config", "logger"}, mu: mu, trace: &trace})

		ctx := context.Background()
		require.NoError(t, reg.Init(ctx))
		require.NoError(t, reg.Start(ctx))
		require.NoError(t, reg.Stop(ctx))

		require.Len(t, trace, 9)
		assert.Equal(t, []string{"init:config", "init:logger", "init:event"}, trace[0:3])
		assert.Equal(t, []string{"start:config", "start:logger", "start:event"}, trace[3:6])
		assert.Equal(t, []string{"stop:event", "stop:logger", "stop:config"}, trace[6:9])
	})

	t.Run("component init error surfaces", func(t *testing.T) {
		mu := &sync.Mutex{}
		reg := registry.NewRegistry()
		reg.MustRegister(newFakeConfig(mu, nil))
		reg.MustRegister(&fakeComponent{
			name:    "broken",
			deps:    []string{"config"},
			initErr: assert.AnError,
		})

		err := reg.Init(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "component 'broken' failed")
	})
}

// TestRegistry_SetLogger test logger injection rules
func TestRegistry_SetLogger(t *testing.T) {
	reg := registry.NewRegistry()
	log := logger.NewManager(logger.ManagerConfig{
		BaseLogDir:    t.TempDir(),
		EnableConsole: false,
	}).GetLogger("flight")

	reg.SetLogger(log)

	assert.Panics(t, func() {
		reg.SetLogger(log)
	})

	assert.Panics(t, func() {
		registry.NewRegistry().SetLogger(nil)
	})
}

// writeRegistryConfig writes a config dir for the end-to-end lifecycle test.
func writeRegistryConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := "app:\n  name: registry-test\nlogger:\n  base_log_dir: " + t.TempDir() +
		"\n  enable_console: false\nevent:\n  enabled: true\n  metrics: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
	return dir
}

// TestRegistry_Lifecycle_EndToEnd full lifecycle over real components
func TestRegistry_Lifecycle_EndToEnd(t *testing.T) {
	workDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(workDir))
	defer os.Chdir(oldWd)

	configDir := writeRegistryConfig(t)

	cfgComp := application.NewConfigComponent(configDir, "REGTEST", nil)
	logComp := application.NewLoggerComponent()
	evComp := event.NewComponent()

	reg := registry.NewRegistry()
	reg.MustRegister(cfgComp)
	reg.MustRegister(logComp)
	reg.MustRegister(evComp)

	ctx := context.Background()
	require.NoError(t, reg.Init(ctx))
	require.NoError(t, reg.Start(ctx))

	require.True(t, evComp.IsEnabled())
	dispatcher := evComp.GetDispatcher()
	require.NotNil(t, dispatcher)

	dispatcher.Set("greet", func(name string) string {
		return "hello " + name
	})
	result, err := dispatcher.Run(ctx, "greet", "flight")
	require.NoError(t, err)
	assert.Equal(t, "hello flight", result)

	health := reg.HealthCheck(ctx, 0)
	require.Contains(t, health, component.ComponentEvent)
	assert.NoError(t, health[component.ComponentEvent])

	require.NoError(t, reg.Stop(ctx))
}

// TestRegistry_Lifecycle_DisabledEvent event component disabled via config
func TestRegistry_Lifecycle_DisabledEvent(t *testing.T) {
	workDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(workDir))
	defer os.Chdir(oldWd)

	configDir := t.TempDir()
	content := "app:\n  name: registry-test\nlogger:\n  base_log_dir: " + t.TempDir() +
		"\n  enable_console: false\nevent:\n  enabled: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644))

	cfgComp := application.NewConfigComponent(configDir, "REGTEST", nil)
	logComp := application.NewLoggerComponent()
	evComp := event.NewComponent()

	reg := registry.NewRegistry()
	reg.MustRegister(cfgComp)
	reg.MustRegister(logComp)
	reg.MustRegister(evComp)

	ctx := context.Background()
	require.NoError(t, reg.Init(ctx))

	assert.False(t, evComp.IsEnabled())
	assert.Nil(t, evComp.GetDispatcher())
}
