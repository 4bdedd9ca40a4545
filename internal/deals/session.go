package deals

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aanand-mishra/deals-registry/internal/metrics"
	"github.com/aanand-mishra/deals-registry/internal/render"
	"github.com/aanand-mishra/deals-registry/internal/types"
	"github.com/aanand-mishra/deals-registry/internal/view"
)

// Options tunes a Session. The zero value is usable.
type Options struct {
	Locale          string
	InitialPageSize int
	PageSize        int
	DedupePages     bool
	// SearchURL is the detail view's outbound link template.
	SearchURL string
	Logger    *slog.Logger
	Metrics   *metrics.Registry
}

// Session owns everything one browsing session needs: the cache (inside
// the paginator), the filtered view, the active filter and the status.
type Session struct {
	pager     *Paginator
	engine    *Engine
	searchURL string
	log       *slog.Logger
	metrics   *metrics.Registry

	mu      sync.Mutex
	filter  Filter
	current []types.Deal
	status  view.Status
}

func NewSession(source Source, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SearchURL == "" {
		opts.SearchURL = render.DefaultSearchURL
	}
	return &Session{
		pager:     NewPaginator(source, opts.InitialPageSize, opts.PageSize, opts.DedupePages),
		engine:    NewEngine(opts.Locale),
		searchURL: opts.SearchURL,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		current:   []types.Deal{},
	}
}

// Load is the initial load: it clears the filter and the cache, and
// fetches the first page. A transport failure leaves the cache empty.
func (s *Session) Load(ctx context.Context) error {
	release, err := s.begin()
	if err != nil {
		return err
	}
	defer release()

	started := time.Now()
	deals, err := s.pager.initial(ctx)
	s.metrics.ObserveFetch(started, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = Filter{}
	if err != nil {
		s.current = []types.Deal{}
		s.status.Fail(view.Transport, "")
		s.log.Error("initial deals load failed", slog.String("error", err.Error()))
		return err
	}
	s.refreshLocked()
	s.log.Info("deals loaded", slog.Int("count", len(deals)))
	return nil
}

// LoadMore appends the next page. An empty page returns ErrEndOfData and
// shows the informational banner; the next call asks for the same page.
func (s *Session) LoadMore(ctx context.Context) error {
	release, err := s.begin()
	if err != nil {
		return err
	}
	defer release()

	started := time.Now()
	deals, err := s.pager.next(ctx)
	if errors.Is(err, ErrEndOfData) {
		s.metrics.ObserveFetch(started, nil)
	} else {
		s.metrics.ObserveFetch(started, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case errors.Is(err, ErrEndOfData):
		s.metrics.ObserveEndOfData()
		s.status.Fail(view.EndOfData, "")
		s.log.Info("no more deals", slog.Int("page", s.pager.PageIndex()))
		return err
	case err != nil:
		s.status.Fail(view.Transport, "")
		s.log.Error("loading more deals failed",
			slog.Int("page", s.pager.PageIndex()),
			slog.String("error", err.Error()),
		)
		return err
	}
	s.refreshLocked()
	s.log.Debug("deals page appended", slog.Int("count", len(deals)), slog.Int("next_page", s.pager.PageIndex()))
	return nil
}

// Apply changes the filter and recomputes the view from the cache. It
// never fetches. Re-applying the active filter keeps the current status,
// so a banner survives a page refresh.
func (s *Session) Apply(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f == s.filter || s.status.Loading() {
		s.filter = f
		s.current = s.engine.Query(s.pager.Deals(), s.filter)
		return
	}
	s.filter = f
	s.refreshLocked()
}

// DismissBanner hides an error or informational banner.
func (s *Session) DismissBanner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.Loading() {
		s.status.Reset()
	}
}

// Snapshot is a consistent copy of the session at one instant.
type Snapshot struct {
	Filter    Filter            `json:"filter"`
	Status    view.Status       `json:"status"`
	PageIndex int               `json:"pageIndex"`
	Cached    int               `json:"cached"`
	Busy      bool              `json:"busy"`
	// Stores lists the distinct storeIDs in the cache, for the selector.
	Stores    []string          `json:"stores"`
	Cards     []render.DealCard `json:"deals"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Filter:    s.filter,
		Status:    s.status,
		PageIndex: s.pager.PageIndex(),
		Cached:    s.pager.Cached(),
		Busy:      s.pager.Busy(),
		Stores:    storeIDs(s.pager.Deals()),
		Cards:     render.Deals(s.current),
	}
}

func storeIDs(cache []types.Deal) []string {
	ids := make([]string, 0, 4)
	for _, d := range cache {
		if d.StoreID != "" && !slices.Contains(ids, d.StoreID) {
			ids = append(ids, d.StoreID)
		}
	}
	slices.Sort(ids)
	return ids
}

// Detail expands the deal at index in the current view.
func (s *Session) Detail(index int) (render.DealDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.current) {
		return render.DealDetail{}, ErrNotFound
	}
	return render.Detail(s.current[index], index, s.searchURL), nil
}

// begin takes the paginator's busy flag and enters Loading under the same
// lock, so a rejected call never touches the status. The returned release
// drops the flag and clears a Loading left behind by any exit path.
func (s *Session) begin() (release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pager.acquire() {
		return nil, ErrBusy
	}
	finish := s.status.Begin()
	return func() {
		s.mu.Lock()
		finish()
		s.mu.Unlock()
		s.pager.release()
	}, nil
}

func (s *Session) refreshLocked() {
	s.current = s.engine.Query(s.pager.Deals(), s.filter)
	s.metrics.SetDealsCached(s.pager.Cached())
	if len(s.current) == 0 {
		s.status.Fail(view.EmptyResult, "")
		return
	}
	s.status.Succeed()
}
