package cascade

import (
	"cmp"
	"fmt"
	"slices"
)

// Catalog is an immutable, priority-ordered set of backends. It is safe for
// concurrent use because nothing mutates it after NewCatalog returns.
type Catalog struct {
	backends []Backend
	byID     map[string]int
}

// NewCatalog builds a catalog from the given backends. IDs must be
// non-empty and unique. Backends with equal priority keep their argument
// order.
func NewCatalog(backends ...Backend) (*Catalog, error) {
	sorted := slices.Clone(backends)
	slices.SortStableFunc(sorted, func(a, b Backend) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	byID := make(map[string]int, len(sorted))
	for i, b := range sorted {
		if b.ID == "" {
			return nil, fmt.Errorf("backend at priority %d has empty id: %w", b.Priority, ErrValidation)
		}
		if _, dup := byID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate backend id %q: %w", b.ID, ErrValidation)
		}
		byID[b.ID] = i
	}
	return &Catalog{backends: sorted, byID: byID}, nil
}

// MustCatalog is like NewCatalog but panics on error. Intended for
// package-level built-in catalogs.
func MustCatalog(backends ...Backend) *Catalog {
	c, err := NewCatalog(backends...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of backends.
func (c *Catalog) Len() int {
	return len(c.backends)
}

// Backends returns all backends ordered by priority.
func (c *Catalog) Backends() []Backend {
	return slices.Clone(c.backends)
}

// Lookup returns the backend with the given ID.
func (c *Catalog) Lookup(id string) (Backend, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Backend{}, false
	}
	return c.backends[i], true
}

// ResolveOrder returns the backends to try for one invocation.
//
// A nil override yields the whole catalog by priority. A non-nil override,
// even an empty one, yields only the named backends in override order;
// unknown IDs are dropped and repeated IDs keep their first position. The
// result may be empty, which callers treat as a configuration error.
func (c *Catalog) ResolveOrder(override []string) []Backend {
	if override == nil {
		return c.Backends()
	}
	resolved := make([]Backend, 0, len(override))
	seen := make(map[string]bool, len(override))
	for _, id := range override {
		i, ok := c.byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		resolved = append(resolved, c.backends[i])
	}
	return resolved
}
