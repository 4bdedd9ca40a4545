// Package deals is the game-deals pipeline: a paged remote source feeding
// a session cache, a filter/sort engine over that cache, and the session
// object tying them to the view status.
package deals

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/aanand-mishra/deals-registry/internal/types"
)

var (
	// ErrBusy is returned when a page request is already outstanding.
	// The second call is rejected, never queued.
	ErrBusy = errors.New("deals: a page request is already in progress")

	// ErrEndOfData signals an empty page. It is not a transport failure,
	// and the page index is left where it was so the same page can be
	// requested again.
	ErrEndOfData = errors.New("deals: no more pages")

	ErrNotFound = errors.New("deals: no deal at that position")
)

// Source is the remote source gateway contract.
type Source interface {
	FetchPage(ctx context.Context, pageIndex, pageSize int) ([]types.Deal, error)
}

const (
	DefaultInitialPageSize = 60
	DefaultPageSize        = 12
)

// Paginator tracks which page to request next and feeds results into its
// Cache. The first page uses initialSize, every later page pageSize.
type Paginator struct {
	source      Source
	initialSize int
	pageSize    int
	dedupe      bool

	busy atomic.Bool

	mu        sync.Mutex
	pageIndex int
	cache     Cache
}

func NewPaginator(source Source, initialSize, pageSize int, dedupe bool) *Paginator {
	if initialSize <= 0 {
		initialSize = DefaultInitialPageSize
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{
		source:      source,
		initialSize: initialSize,
		pageSize:    pageSize,
		dedupe:      dedupe,
	}
}

// Initial resets the page index and the cache, then loads page 0.
func (p *Paginator) Initial(ctx context.Context) ([]types.Deal, error) {
	if !p.acquire() {
		return nil, ErrBusy
	}
	defer p.release()
	return p.initial(ctx)
}

// Next loads the page at the current index and appends it to the cache.
func (p *Paginator) Next(ctx context.Context) ([]types.Deal, error) {
	if !p.acquire() {
		return nil, ErrBusy
	}
	defer p.release()
	return p.next(ctx)
}

func (p *Paginator) PageIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageIndex
}

// Deals returns a copy of everything cached so far.
func (p *Paginator) Deals() []types.Deal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.All()
}

func (p *Paginator) Cached() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.Len()
}

func (p *Paginator) Busy() bool { return p.busy.Load() }

func (p *Paginator) acquire() bool { return p.busy.CompareAndSwap(false, true) }
func (p *Paginator) release()      { p.busy.Store(false) }

// initial and next assume the caller holds the busy flag. The network
// call runs without p.mu held.
func (p *Paginator) initial(ctx context.Context) ([]types.Deal, error) {
	p.mu.Lock()
	p.pageIndex = 0
	p.cache.Clear()
	p.mu.Unlock()

	deals, err := p.source.FetchPage(ctx, 0, p.initialSize)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.ReplaceAll(deals)
	if len(deals) > 0 {
		p.pageIndex++
	}
	return deals, nil
}

func (p *Paginator) next(ctx context.Context) ([]types.Deal, error) {
	p.mu.Lock()
	index := p.pageIndex
	p.mu.Unlock()

	deals, err := p.source.FetchPage(ctx, index, p.pageSize)
	if err != nil {
		return nil, err
	}
	if len(deals) == 0 {
		return nil, ErrEndOfData
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dedupe {
		deals = p.unseenLocked(deals)
	}
	p.cache.Append(deals)
	p.pageIndex++
	return deals, nil
}

// unseenLocked drops deals whose dealID is already cached or repeated
// within the page.
func (p *Paginator) unseenLocked(deals []types.Deal) []types.Deal {
	seen := make(map[string]struct{}, len(deals))
	out := make([]types.Deal, 0, len(deals))
	for _, d := range deals {
		if d.DealID != "" {
			if _, dup := seen[d.DealID]; dup || p.cache.Contains(d.DealID) {
				continue
			}
			seen[d.DealID] = struct{}{}
		}
		out = append(out, d)
	}
	return out
}
