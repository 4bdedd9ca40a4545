package deals

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aanand-mishra/deals-registry/internal/render"
	"github.com/aanand-mishra/deals-registry/internal/types"
)

// SortKey selects the ordering of the result view.
type SortKey string

const (
	SortNone   SortKey = ""
	SortRating SortKey = "rating"
	SortRecent SortKey = "recent"
	SortName   SortKey = "name"
)

// ParseSortKey accepts the selector values; anything unknown is an error.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNone, SortRating, SortRecent, SortName:
		return k, nil
	default:
		return SortNone, fmt.Errorf("unknown sort key %q", s)
	}
}

// Filter is the state of the search field and the two selectors.
type Filter struct {
	Term  string  `json:"term"`
	Store string  `json:"store,omitempty"`
	Sort  SortKey `json:"sort,omitempty"`
}

// Engine runs queries with a fixed collation locale.
type Engine struct {
	tag language.Tag
}

// NewEngine builds an Engine collating titles for locale. A malformed
// locale collates with the root order.
func NewEngine(locale string) *Engine {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Engine{tag: tag}
}

// Query returns the deals of cache that pass f, ordered by f.Sort. cache
// itself is never reordered. Every sort is stable, so equal keys keep
// their input order. No match yields an empty, non-nil slice.
func (e *Engine) Query(cache []types.Deal, f Filter) []types.Deal {
	term := strings.ToLower(strings.TrimSpace(f.Term))

	out := make([]types.Deal, 0, len(cache))
	for _, d := range cache {
		if term != "" && !strings.Contains(strings.ToLower(render.Title(d)), term) {
			continue
		}
		if f.Store != "" && d.StoreID != f.Store {
			continue
		}
		out = append(out, d)
	}

	switch f.Sort {
	case SortRating:
		slices.SortStableFunc(out, func(a, b types.Deal) int {
			return cmp.Compare(b.DealRating.Or(0), a.DealRating.Or(0))
		})
	case SortRecent:
		slices.SortStableFunc(out, func(a, b types.Deal) int {
			return cmp.Compare(b.ReleaseDate, a.ReleaseDate)
		})
	case SortName:
		// A Collator is not safe for concurrent use.
		col := collate.New(e.tag, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b types.Deal) int {
			return col.CompareString(render.Title(a), render.Title(b))
		})
	}

	return out
}
