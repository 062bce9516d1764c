package backend

import (
	"fmt"
	"sort"
	"sync"
)

// Backend names.
const (
	NameOpenGL = "opengl"
	NameTrace  = "trace"
)

// Factory creates a Context bound to the calling thread's current
// graphics context.
type Factory func() (Context, error)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for default selection (first available wins).
	backendPriority = []string{NameOpenGL}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages:
//
//	func init() {
//	    backend.Register(backend.NameOpenGL, New)
//	}
//
// If a backend with the same name is already registered, it is replaced.
// Register panics if factory is nil.
func Register(name string, factory Factory) {
	if factory == nil {
		panic("backend: Register factory is nil")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the sorted list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open creates a context from the named backend.
//
// Returns an error wrapping ErrNotAvailable if the backend is not
// registered. The error message includes a hint about forgotten imports.
func Open(name string) (Context, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown backend %q (forgotten import?)", ErrNotAvailable, name)
	}
	ctx, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return ctx, nil
}

// OpenDefault creates a context from the best available backend.
// Backends in the priority list are tried first, then the remaining ones
// in name order. The error of the last failing factory is returned when
// none succeeds.
func OpenDefault() (Context, error) {
	tried := make(map[string]bool)
	lastErr := ErrNotAvailable

	order := append([]string(nil), backendPriority...)
	order = append(order, Available()...)
	for _, name := range order {
		if tried[name] || !IsRegistered(name) {
			continue
		}
		tried[name] = true
		ctx, err := Open(name)
		if err == nil {
			return ctx, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// MustOpen is like Open but panics on error.
func MustOpen(name string) Context {
	ctx, err := Open(name)
	if err != nil {
		panic(err)
	}
	return ctx
}
