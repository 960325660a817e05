// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  `escortd serve` builds the
// shared Deps once and calls Mount, which constructs every registered
// component in name order and lets it add its routes to the root router.

package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Component contract.
//
// Routes() adds page endpoints to the shared router, e.g.:
//
//	func (c *Component) Routes(r chi.Router) {
//		r.Get("/blog", c.index)
//		r.Get("/blog/{slug}", c.post)
//	}
type Component interface {
	Name() string
	Routes(r chi.Router)
}

// Factory builds a component from the shared dependencies.
type Factory func(*Deps) (Component, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register is invoked from component init() functions.  Registering the
// same name twice panics.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic("component: duplicate registration of " + name)
	}
	registry[name] = f
}

// Names returns every registered component name, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Mount builds every registered component and adds its routes to r.
func Mount(r chi.Router, d *Deps) error {
	for _, name := range Names() {
		mu.RLock()
		f := registry[name]
		mu.RUnlock()

		c, err := f(d)
		if err != nil {
			return fmt.Errorf("component %s: %w", name, err)
		}
		c.Routes(r)
	}
	return nil
}
