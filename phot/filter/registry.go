package filter

import (
	"sort"

	"github.com/hashicorp/golang-lru/v2"
)

// DefaultRegistryCapacity bounds a registry created with capacity <= 0.
const DefaultRegistryCapacity = 128

// Registry is a named cache of filter curves, owned by the catalog layer
// that loads curves from wherever they live. Curves never register
// themselves; the catalog populates the registry on load and overwrites on
// reload. Registering an existing name silently replaces the previous
// entry.
type Registry struct {
	cache *lru.Cache[string, *Curve]
}

// NewRegistry creates a registry holding up to capacity curves, evicting
// the least recently used entry beyond that. A capacity <= 0 selects
// DefaultRegistryCapacity.
func NewRegistry(capacity int) (*Registry, error) {
	if capacity <= 0 {
		capacity = DefaultRegistryCapacity
	}

	cache, err := lru.New[string, *Curve](capacity)
	if err != nil {
		return nil, err
	}

	return &Registry{cache: cache}, nil
}

// Register stores the curve under its canonical name, replacing any
// previous entry with that name.
func (r *Registry) Register(c *Curve) {
	r.cache.Add(c.Name(), c)
}

// Lookup returns the curve registered under name, if any.
func (r *Registry) Lookup(name string) (*Curve, bool) {
	return r.cache.Get(name)
}

// Remove drops the curve registered under name.
func (r *Registry) Remove(name string) {
	r.cache.Remove(name)
}

// Len returns the number of registered curves.
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	names := r.cache.Keys()
	sort.Strings(names)

	return names
}
