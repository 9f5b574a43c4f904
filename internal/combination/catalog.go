package combination

import (
	"cmp"
	"slices"
)

// Catalog read-only set of combinations. Safe for concurrent readers once built.
type Catalog struct {
	all        []*Combination
	byPriority []*Combination
	standalone map[string]*Combination // name -> lowest priority
}

// NewCatalog builds a catalog, keeping the given order as the source order.
func NewCatalog(combinations []*Combination) *Catalog {
	all := make([]*Combination, len(combinations))
	copy(all, combinations)

	byPriority := slices.Clone(all)
	slices.SortStableFunc(byPriority, func(a, b *Combination) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	standalone := make(map[string]*Combination, len(all))
	for _, c := range all {
		// strict less keeps the first loaded on ties
		if existing, ok := standalone[c.Name]; !ok || c.Priority < existing.Priority {
			standalone[c.Name] = c
		}
	}

	return &Catalog{
		all:        all,
		byPriority: byPriority,
		standalone: standalone,
	}
}

// Len number of combinations
func (c *Catalog) Len() int {
	return len(c.all)
}

// All combinations in source order. Callers must not modify the slice.
func (c *Catalog) All() []*Combination {
	return c.all
}

// ByPriority combinations sorted by ascending priority, source order on ties.
// Callers must not modify the slice.
func (c *Catalog) ByPriority() []*Combination {
	return c.byPriority
}

// Lookup returns the combination with exactly this name and the lowest
// priority value.
func (c *Catalog) Lookup(name string) (*Combination, bool) {
	combo, ok := c.standalone[name]
	return combo, ok
}
