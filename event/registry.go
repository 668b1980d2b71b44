package event

import (
	"context"
	"sync"

	"github.com/cgslivre/flight/callable"
	"github.com/cgslivre/flight/logger"
	"go.uber.org/zap"
)

// targetEntry pairs the target exactly as registered with its normalized
// form. resolved stays nil when registration-time normalization was not
// possible (a bare function name registered with the type registry later);
// the dispatcher retries on first use and memoizes the result.
type targetEntry struct {
	raw      interface{}
	resolved *callable.Callable
}

// Registry maps event names to a single target and two ordered filter
// chains. An event has zero or one target; last registration wins. Filter
// chains live independently of the target, so filters may be hooked before
// the target exists or for names that never get one.
//
// All operations are safe for concurrent use. Callers that need a
// deterministic chain for an in-flight dispatch must still serialize their
// own registrations against Run: a dispatch snapshots each chain when it
// reaches it, not at entry.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]*targetEntry
	filters map[string]map[Phase][]interface{}
	types   *callable.Types
	logger  Logger
}

// NewRegistry creates an empty registry resolving string targets against
// the package-default callable type registry.
func NewRegistry() *Registry {
	return NewRegistryWithTypes(nil)
}

// NewRegistryWithTypes creates an empty registry resolving string targets
// against types. A nil types falls back to the package default.
func NewRegistryWithTypes(types *callable.Types) *Registry {
	if types == nil {
		types = callable.Default()
	}
	return &Registry{
		targets: make(map[string]*targetEntry),
		filters: make(map[string]map[Phase][]interface{}),
		types:   types,
		logger:  logger.GetLogger("flight"),
	}
}

// SetLogger replaces the diagnostic logger. The dispatcher shares its own
// logger with registries it creates itself.
func (r *Registry) SetLogger(l Logger) {
	if l == nil {
		return
	}
	r.mu.Lock()
	r.logger = l
	r.mu.Unlock()
}

// Types returns the callable type registry string targets resolve against.
func (r *Registry) Types() *callable.Types {
	return r.types
}

// Set stores target under name, replacing any previous target. Filter
// chains already hooked for name are untouched. The target is normalized
// now when possible; string forms that only become resolvable later are
// normalized again on first dispatch.
func (r *Registry) Set(name string, target interface{}) {
	var resolved *callable.Callable
	if c, err := r.types.Resolve(target); err == nil {
		resolved = c
	}

	r.mu.Lock()
	r.targets[name] = &targetEntry{raw: target, resolved: resolved}
	r.mu.Unlock()
}

// Get returns the target exactly as it was given to Set, nil when name has
// none. A miss is not an error.
func (r *Registry) Get(name string) interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.targets[name]; ok {
		return entry.raw
	}
	return nil
}

// Has reports whether name has a registered target.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.targets[name]
	return ok
}

// Clear removes name's target and both its filter chains as one operation.
// Every other name keeps its state.
func (r *Registry) Clear(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.targets, name)
	delete(r.filters, name)
}

// Reset wipes every target and every filter chain.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.targets = make(map[string]*targetEntry)
	r.filters = make(map[string]map[Phase][]interface{})
}

// Hook appends filter to the ordered chain for (name, phase). Insertion
// order is execution order. An unrecognized phase surfaces a WARN
// diagnostic but registration still happens under the phase key as given;
// Run only ever executes the before and after chains.
func (r *Registry) Hook(name string, phase Phase, filter interface{}) {
	if !phase.Known() {
		r.mu.RLock()
		log := r.logger
		r.mu.RUnlock()
		log.WarnCtx(context.Background(), "unrecognized filter phase",
			zap.String("event", name),
			zap.String("phase", phase.String()))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byPhase, ok := r.filters[name]
	if !ok {
		byPhase = make(map[Phase][]interface{})
		r.filters[name] = byPhase
	}
	byPhase[phase] = append(byPhase[phase], filter)
}

// Filters returns a snapshot of the (name, phase) chain in registration
// order, nil when empty.
func (r *Registry) Filters(name string, phase Phase) []interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain := r.filters[name][phase]
	if len(chain) == 0 {
		return nil
	}
	snapshot := make([]interface{}, len(chain))
	copy(snapshot, chain)
	return snapshot
}

// FilterCount returns the number of filters hooked for (name, phase).
func (r *Registry) FilterCount(name string, phase Phase) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.filters[name][phase])
}

// resolveTarget returns the normalized callable for name. ok is false when
// no target is registered. When registration-time normalization failed the
// resolution is retried here and memoized on success, so a function name
// registered after Set still dispatches.
func (r *Registry) resolveTarget(name string) (*callable.Callable, bool, error) {
	r.mu.RLock()
	entry, ok := r.targets[name]
	var resolved *callable.Callable
	if ok {
		resolved = entry.resolved
	}
	r.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if resolved != nil {
		return resolved, true, nil
	}

	c, err := r.types.Resolve(entry.raw)
	if err != nil {
		return nil, true, err
	}

	r.mu.Lock()
	// Memoize only while the entry is still the registered one; a
	// concurrent Set replaces the pointer.
	if current, stillThere := r.targets[name]; stillThere && current == entry {
		current.resolved = c
	}
	r.mu.Unlock()

	return c, true, nil
}
