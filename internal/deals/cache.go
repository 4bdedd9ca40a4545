package deals

import (
	"slices"

	"github.com/aanand-mishra/deals-registry/internal/types"
)

// Cache holds every deal fetched in the current session, in arrival order.
// It is not safe for concurrent use; the Session serialises access.
type Cache struct {
	deals []types.Deal
}

// ReplaceAll discards prior content.
func (c *Cache) ReplaceAll(deals []types.Deal) {
	c.deals = slices.Clone(deals)
}

// Append extends the cache in received order. Duplicates across pages are
// kept.
func (c *Cache) Append(deals []types.Deal) {
	c.deals = append(c.deals, deals...)
}

func (c *Cache) Clear() { c.deals = nil }

func (c *Cache) Len() int { return len(c.deals) }

// All returns a copy so callers cannot mutate the cache through it.
func (c *Cache) All() []types.Deal {
	out := make([]types.Deal, len(c.deals))
	copy(out, c.deals)
	return out
}

// Contains reports whether a deal with the given dealID is cached. Deals
// without an ID never match.
func (c *Cache) Contains(dealID string) bool {
	if dealID == "" {
		return false
	}
	return slices.ContainsFunc(c.deals, func(d types.Deal) bool { return d.DealID == dealID })
}
