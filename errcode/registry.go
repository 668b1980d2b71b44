package errcode

import (
	"fmt"
	"sync"
)

// Registry tracks every registered code and panics on conflicts, so two
// packages can never claim the same MMBBBB value for different errors.
type Registry struct {
	mu     sync.RWMutex
	codes  map[int]string // code -> module:msgKey
	locked bool
}

var globalRegistry = &Registry{
	codes: make(map[int]string),
}

// Register records err in the global registry and returns it, so error
// variables can be declared as `var ErrX = errcode.Register(errcode.New(...))`.
func Register(err *LayeredError) *LayeredError {
	return globalRegistry.Register(err)
}

// Register records err. Re-registering the identical code/key pair is
// idempotent; a differing pair for an existing code panics.
func (r *Registry) Register(err *LayeredError) *LayeredError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.locked {
		panic(fmt.Sprintf("registry is locked, cannot register error code: %d", err.Code()))
	}

	code := err.Code()
	key := fmt.Sprintf("%s:%s", err.Module(), err.MsgKey())

	if existingKey, exists := r.codes[code]; exists {
		if existingKey != key {
			panic(fmt.Sprintf(
				"error code conflict: code %d is already registered as %s, cannot register as %s",
				code, existingKey, key,
			))
		}
		return err
	}

	r.codes[code] = key
	return err
}

// Lock freezes the registry. Call after startup so no code path can mint
// new error codes at runtime.
func (r *Registry) Lock() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = true
}

// Unlock re-allows registration.
func (r *Registry) Unlock() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = false
}

// IsLocked reports whether the registry is frozen.
func (r *Registry) IsLocked() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locked
}

// GetAll returns a copy of every registered code.
func (r *Registry) GetAll() map[int]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make(map[int]string, len(r.codes))
	for k, v := range r.codes {
		codes[k] = v
	}
	return codes
}

// Count returns the number of registered codes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.codes)
}

// Clear empties the registry. Test helper only.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = make(map[int]string)
	r.locked = false
}

// LockGlobalRegistry freezes the global registry.
func LockGlobalRegistry() {
	globalRegistry.Lock()
}

// UnlockGlobalRegistry re-allows registration in the global registry.
func UnlockGlobalRegistry() {
	globalRegistry.Unlock()
}

// IsGlobalRegistryLocked reports whether the global registry is frozen.
func IsGlobalRegistryLocked() bool {
	return globalRegistry.IsLocked()
}

// GetAllRegisteredCodes returns a copy of the global registry contents.
func GetAllRegisteredCodes() map[int]string {
	return globalRegistry.GetAll()
}

// GetRegistryCount returns the global registry size.
func GetRegistryCount() int {
	return globalRegistry.Count()
}

// ClearGlobalRegistry empties the global registry. Test helper only.
func ClearGlobalRegistry() {
	globalRegistry.Clear()
}
