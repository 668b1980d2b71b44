package di

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/do/v2"
)

// DoContainer bridges samber/do services to the dispatcher's lookup
// container. The event side resolves method targets by opaque type name
// ("Mailer" in "Mailer->Send"); do indexes services by Go type or by
// service name. Expose binds one to the other, so only explicitly
// exposed services are reachable from event target strings.
//
// Implements callable.Container.
type DoContainer struct {
	injector  do.Injector
	mu        sync.RWMutex
	resolvers map[string]func() (interface{}, error)
}

// NewDoContainer creates a container over injector with nothing exposed.
func NewDoContainer(injector do.Injector) *DoContainer {
	return &DoContainer{
		injector:  injector,
		resolvers: make(map[string]func() (interface{}, error)),
	}
}

// Expose makes the do-provided T resolvable under id. Resolution is
// lazy; do instantiates T on first Get and caches it. A second Expose
// under the same id replaces the binding.
//
// Example:
//
//	di.Expose[*MailerService](container, "Mailer")
//	dispatcher.Set("user.created", "Mailer->Send")
func Expose[T any](dc *DoContainer, id string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.resolvers[id] = func() (interface{}, error) {
		instance, err := do.Invoke[T](dc.injector)
		if err != nil {
			return nil, err
		}
		return instance, nil
	}
}

// ExposeNamed binds id to the do service registered under serviceName.
func ExposeNamed[T any](dc *DoContainer, id, serviceName string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.resolvers[id] = func() (interface{}, error) {
		instance, err := do.InvokeNamed[T](dc.injector, serviceName)
		if err != nil {
			return nil, err
		}
		return instance, nil
	}
}

// Unexpose removes the binding for id, if any.
func (dc *DoContainer) Unexpose(id string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	delete(dc.resolvers, id)
}

// Has reports whether id is exposed.
func (dc *DoContainer) Has(id string) bool {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	_, ok := dc.resolvers[id]
	return ok
}

// Get resolves id through do. The resolver runs outside the container
// lock; do handles its own synchronization and instance caching.
func (dc *DoContainer) Get(id string) (interface{}, error) {
	dc.mu.RLock()
	resolver, ok := dc.resolvers[id]
	dc.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("service %q not exposed", id)
	}
	return resolver()
}

// Exposed returns the exposed ids, sorted.
func (dc *DoContainer) Exposed() []string {
	dc.mu.RLock()
	defer dc.mu.RUnlock()

	ids := make([]string, 0, len(dc.resolvers))
	for id := range dc.resolvers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Injector returns the underlying do injector.
func (dc *DoContainer) Injector() do.Injector {
	return dc.injector
}
