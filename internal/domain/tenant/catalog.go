// Package tenant defines the fixed tenant catalog used to partition the feed.
package tenant

// Catalog is the closed set of tenant identifiers known at process start.
// It is immutable for the lifetime of the process; lookups never mutate state.
type Catalog struct {
	order []string
	ids   map[string]struct{}
}

// NewCatalog builds a catalog from the configured tenant list, preserving
// configuration order and dropping duplicates.
func NewCatalog(ids []string) *Catalog {
	c := &Catalog{
		order: make([]string, 0, len(ids)),
		ids:   make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := c.ids[id]; ok {
			continue
		}
		c.ids[id] = struct{}{}
		c.order = append(c.order, id)
	}
	return c
}

// IsValid reports whether id is a known tenant.
func (c *Catalog) IsValid(id string) bool {
	if id == "" {
		return false
	}
	_, ok := c.ids[id]
	return ok
}

// List returns the tenant identifiers in configuration order.
// The returned slice is a copy; callers cannot mutate the catalog through it.
func (c *Catalog) List() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of configured tenants.
func (c *Catalog) Len() int {
	return len(c.order)
}
