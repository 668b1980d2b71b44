// Package registry provides a hand-wired component registry for programs
// that manage component lifecycles without the DI container. Applications
// built on BaseApplication use the di providers instead; the registry
// serves embedded setups that register components explicitly.
package registry

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cgslivre/flight/component"
	"github.com/cgslivre/flight/logger"
)

// Registry stores components and drives their lifecycle in dependency
// order.
type Registry struct {
	mu         sync.RWMutex
	components map[string]component.Component
	logger     *logger.CtxZapLogger // optional, injected after creation
}

// NewRegistry creates an empty component registry.
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]component.Component),
	}
}

// Register adds a component. Names are unique; registering the same name
// twice is an error.
func (r *Registry) Register(comp component.Component) error {
	if comp == nil {
		return fmt.Errorf("component cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := comp.Name()
	if name == "" {
		return fmt.Errorf("component name cannot be empty")
	}

	if _, exists := r.components[name]; exists {
		return fmt.Errorf("component '%s' already registered", name)
	}

	r.components[name] = comp

	// Components that want a registry reference get it at registration
	if setter, ok := comp.(interface{ SetRegistry(*Registry) }); ok {
		setter.SetRegistry(r)
	}

	return nil
}

// MustRegister adds a component and panics on failure. Core components
// fail fast.
func (r *Registry) MustRegister(comp component.Component) {
	if err := r.Register(comp); err != nil {
		panic(fmt.Sprintf("register core component '%s' failed: %v", comp.Name(), err))
	}
}

// SetLogger injects the lifecycle logger. It may be set exactly once;
// a second call or a nil logger panics.
func (r *Registry) SetLogger(l *logger.CtxZapLogger) {
	if r.logger != nil {
		panic("Registry logger already set")
	}
	if l == nil {
		panic("Registry logger cannot be nil")
	}
	r.logger = l
}

// logInfo logs when a logger is present, silently skips otherwise.
func (r *Registry) logInfo(ctx context.Context, msg string, fields ...zap.Field) {
	if r.logger != nil {
		r.logger.InfoCtx(ctx, msg, fields...)
	}
}

func (r *Registry) logDebug(ctx context.Context, msg string, fields ...zap.Field) {
	if r.logger != nil {
		r.logger.DebugCtx(ctx, msg, fields...)
	}
}

func (r *Registry) logError(ctx context.Context, msg string, fields ...zap.Field) {
	if r.logger != nil {
		r.logger.ErrorCtx(ctx, msg, fields...)
	}
}

// Get returns the component registered under name.
func (r *Registry) Get(name string) (component.Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comp, ok := r.components[name]
	return comp, ok
}

// MustGet returns the component or panics when it is missing.
func (r *Registry) MustGet(name string) component.Component {
	comp, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("component '%s' not registered", name))
	}
	return comp
}

// GetTyped returns the component under name cast to T.
//
// Returns the zero value and false when the component is missing or has
// a different type.
func GetTyped[T component.Component](r *Registry, name string) (T, bool) {
	var zero T
	comp, ok := r.Get(name)
	if !ok {
		return zero, false
	}

	typed, ok := comp.(T)
	if !ok {
		return zero, false
	}

	return typed, true
}

// MustGetTyped returns the component cast to T or panics.
func MustGetTyped[T component.Component](r *Registry, name string) T {
	typed, ok := GetTyped[T](r, name)
	if !ok {
		var zero T
		panic(fmt.Sprintf("component '%s' not registered or wrong type, expected: %T", name, zero))
	}
	return typed
}

// Has reports whether a component is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.components[name]
	return exists
}

// Resolve returns all components sorted by dependency order.
func (r *Registry) Resolve() ([]component.Component, error) {
	order, err := r.topologicalSort()
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Init initializes every component in dependency order. The config
// component must be registered; it serves as the ConfigLoader every other
// component reads from.
func (r *Registry) Init(ctx context.Context) error {
	r.logInfo(ctx, "🚀 Initializing components", zap.Int("total", len(r.components)))

	configComp, ok := r.Get(component.ComponentConfig)
	if !ok {
		return fmt.Errorf("config component not registered")
	}

	loader, ok := configComp.(component.ConfigLoader)
	if !ok {
		return fmt.Errorf("config component does not implement ConfigLoader")
	}

	layers, err := r.resolveLayers()
	if err != nil {
		r.logError(ctx, "❌ Resolving component dependencies failed", zap.Error(err))
		return fmt.Errorf("resolve component dependencies failed: %w", err)
	}

	r.logDebug(ctx, "Component dependency layers resolved", zap.Int("layers", len(layers)))

	for layerIdx, layer := range layers {
		r.logDebug(ctx, "Initializing component layer",
			zap.Int("layer", layerIdx),
			zap.Int("count", len(layer)))

		if err := r.runLayer(ctx, layer, func(c component.Component) error {
			r.logDebug(ctx, "Initializing component", zap.String("component", c.Name()))
			return c.Init(ctx, loader)
		}); err != nil {
			r.logError(ctx, "❌ Component initialization failed", zap.Error(err))
			return err
		}
	}

	r.logInfo(ctx, "✅ All components initialized")
	return nil
}

// Start starts every component in dependency order.
func (r *Registry) Start(ctx context.Context) error {
	r.logInfo(ctx, "🚀 Starting components")

	layers, err := r.resolveLayers()
	if err != nil {
		r.logError(ctx, "❌ Resolving component dependencies failed", zap.Error(err))
		return fmt.Errorf("resolve component dependencies failed: %w", err)
	}

	for layerIdx, layer := range layers {
		r.logDebug(ctx, "Starting component layer",
			zap.Int("layer", layerIdx),
			zap.Int("count", len(layer)))

		if err := r.runLayer(ctx, layer, func(c component.Component) error {
			r.logDebug(ctx, "Starting component", zap.String("component", c.Name()))
			return c.Start(ctx)
		}); err != nil {
			r.logError(ctx, "❌ Component start failed", zap.Error(err))
			return err
		}
	}

	r.logInfo(ctx, "✅ All components started")
	return nil
}

// Stop stops every component in reverse dependency order. Stop errors
// are ignored so every component gets its shutdown chance.
func (r *Registry) Stop(ctx context.Context) error {
	r.logInfo(ctx, "🛑 Stopping components")

	layers, err := r.resolveLayers()
	if err != nil {
		r.logError(ctx, "❌ Resolving component dependencies failed", zap.Error(err))
		return fmt.Errorf("resolve component dependencies failed: %w", err)
	}

	for i := len(layers) - 1; i >= 0; i-- {
		r.logDebug(ctx, "Stopping component layer",
			zap.Int("layer", i),
			zap.Int("count", len(layers[i])))

		r.stopLayer(ctx, layers[i])
	}

	r.logInfo(ctx, "✅ All components stopped")
	return nil
}

// runLayer runs one lifecycle function over a layer, concurrently when the
// layer has more than one component.
func (r *Registry) runLayer(ctx context.Context, layer []component.Component, fn func(component.Component) error) error {
	if len(layer) == 0 {
		return nil
	}

	if len(layer) == 1 {
		comp := layer[0]
		if err := fn(comp); err != nil {
			return fmt.Errorf("component '%s' failed: %w", comp.Name(), err)
		}
		return nil
	}

	type result struct {
		comp component.Component
		err  error
	}

	results := make(chan result, len(layer))

	for _, comp := range layer {
		go func(c component.Component) {
			results <- result{
				comp: c,
				err:  fn(c),
			}
		}(comp)
	}

	for range layer {
		res := <-results
		if res.err != nil {
			return fmt.Errorf("component '%s' failed: %w", res.comp.Name(), res.err)
		}
	}

	return nil
}

// stopLayer stops one layer concurrently, ignoring errors.
func (r *Registry) stopLayer(ctx context.Context, layer []component.Component) {
	if len(layer) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, comp := range layer {
		wg.Add(1)
		go func(c component.Component) {
			defer wg.Done()
			_ = c.Stop(ctx)
		}(comp)
	}

	wg.Wait()
}

// resolveLayers groups the topological order into layers so independent
// components run concurrently.
func (r *Registry) resolveLayers() ([][]component.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inDegree := make(map[string]int)
	graph := make(map[string][]string)

	for name := range r.components {
		inDegree[name] = 0
		graph[name] = []string{}
	}

	for name, comp := range r.components {
		for _, dep := range comp.DependsOn() {
			// Optional dependencies carry an "optional:" prefix,
			// e.g. []string{"config", "logger", "optional:telemetry"}
			depName := dep
			isOptional := false
			if len(dep) > 9 && dep[:9] == "optional:" {
				depName = dep[9:]
				isOptional = true
			}

			if _, ok := r.components[depName]; !ok {
				if !isOptional {
					return nil, fmt.Errorf("component '%s' depends on unregistered '%s'", name, depName)
				}
				continue
			}

			graph[depName] = append(graph[depName], name)
			inDegree[name]++
		}
	}

	var layers [][]component.Component
	processed := make(map[string]bool)

	for len(processed) < len(r.components) {
		var currentLayer []string
		for name, degree := range inDegree {
			if processed[name] {
				continue
			}
			if degree == 0 {
				currentLayer = append(currentLayer, name)
				processed[name] = true
			}
		}

		if len(currentLayer) == 0 {
			return nil, fmt.Errorf("component dependency cycle detected")
		}

		layer := make([]component.Component, 0, len(currentLayer))
		for _, name := range currentLayer {
			layer = append(layer, r.components[name])
			for _, next := range graph[name] {
				inDegree[next]--
			}
		}

		layers = append(layers, layer)
	}

	return layers, nil
}

// topologicalSort flattens the dependency layers into one ordered slice.
func (r *Registry) topologicalSort() ([]component.Component, error) {
	layers, err := r.resolveLayers()
	if err != nil {
		return nil, err
	}

	var result []component.Component
	for _, layer := range layers {
		result = append(result, layer...)
	}
	return result, nil
}
