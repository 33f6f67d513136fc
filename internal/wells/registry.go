// Package wells is the explicit registry for wells and their series:
// lookups go through string keys and fail with a NotFoundError rather
// than relying on dynamic attribute resolution.
package wells

import (
	"fmt"
	"sync"
)

// Registry manages the wells known to the service.
type Registry struct {
	mu    sync.RWMutex
	wells map[string]*Well
	order []string // display names in registration order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{wells: make(map[string]*Well)}
}

// Add registers a well under its normalized name.
func (r *Registry) Add(w *Well) error {
	if w == nil {
		return fmt.Errorf("cannot register nil well")
	}
	key := Normalize(w.Name)
	if key == "" {
		return fmt.Errorf("well name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.wells[key]; exists {
		return fmt.Errorf("well %q already registered", w.Name)
	}
	r.wells[key] = w
	r.order = append(r.order, w.Name)
	return nil
}

// GetOrCreate returns the well registered under the name, creating and
// registering an empty one if absent.
func (r *Registry) GetOrCreate(name string) *Well {
	key := Normalize(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.wells[key]; ok {
		return w
	}
	w := NewWell(name)
	r.wells[key] = w
	r.order = append(r.order, w.Name)
	return w
}

// Get resolves a well by name.
func (r *Registry) Get(name string) (*Well, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.wells[Normalize(name)]
	if !ok {
		return nil, &NotFoundError{Kind: "well", Name: name, Available: r.namesLocked()}
	}
	return w, nil
}

// Has reports whether a well is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.wells[Normalize(name)]
	return ok
}

// Remove unregisters a well.
func (r *Registry) Remove(name string) error {
	key := Normalize(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.wells[key]; !ok {
		return &NotFoundError{Kind: "well", Name: name, Available: r.namesLocked()}
	}
	delete(r.wells, key)
	order := make([]string, 0, len(r.order)-1)
	for _, n := range r.order {
		if Normalize(n) != key {
			order = append(order, n)
		}
	}
	r.order = order
	return nil
}

// List returns the registered well names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	return append([]string(nil), r.order...)
}
