// Package deal contains the HTTP handlers for the game-deals session.
//
// The same factory pattern as the student handlers: each function takes
// the session once and returns the handler the router calls.
//
//	router.HandleFunc("GET /api/deals", deal.GetList(session))
package deal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/deals-registry/internal/deals"
	"github.com/aanand-mishra/deals-registry/internal/render"
	"github.com/aanand-mishra/deals-registry/internal/utils/response"
	"github.com/aanand-mishra/deals-registry/internal/view"
)

// Session is the part of *deals.Session the handlers need.
type Session interface {
	Load(ctx context.Context) error
	LoadMore(ctx context.Context) error
	Apply(f deals.Filter)
	DismissBanner()
	Snapshot() deals.Snapshot
	Detail(index int) (render.DealDetail, error)
}

// ParseFilter reads the q, store and sort query parameters.
func ParseFilter(r *http.Request) (deals.Filter, error) {
	q := r.URL.Query()
	sort, err := deals.ParseSortKey(q.Get("sort"))
	if err != nil {
		return deals.Filter{}, err
	}
	return deals.Filter{Term: q.Get("q"), Store: q.Get("store"), Sort: sort}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/deals?q=&store=&sort=
// Applies the filter to the cached deals and returns the session snapshot.
// It never fetches; an empty view comes back with the "no games match"
// banner in status.
//
// Error responses:
//
//	400 Bad Request  : unknown sort key
//
// ─────────────────────────────────────────────────────────────────────────────
func GetList(s Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ParseFilter(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		s.Apply(f)
		response.WriteJSON(w, http.StatusOK, s.Snapshot())
	}
}

// Reload handles POST /api/deals/reload: the initial load, run again.
func Reload(s Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("reloading deals")
		writeFetchResult(w, s, s.Load(r.Context()))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// More handles POST /api/deals/more
// Appends the next page to the cache.
//
// Responses:
//
//	200 OK          : snapshot; an empty page shows the "no more games" banner
//	409 Conflict    : a page request is already in flight
//	502 Bad Gateway : the pricing API could not be reached
//
// ─────────────────────────────────────────────────────────────────────────────
func More(s Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("loading more deals")
		writeFetchResult(w, s, s.LoadMore(r.Context()))
	}
}

// GetByIndex handles GET /api/deals/{index}; the index addresses the
// current filtered and sorted view.
func GetByIndex(s Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(r.PathValue("index"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid index: must be an integer")))
			return
		}

		detail, err := s.Detail(index)
		if err != nil {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, detail)
	}
}

func writeFetchResult(w http.ResponseWriter, s Session, err error) {
	switch {
	case err == nil, errors.Is(err, deals.ErrEndOfData):
		response.WriteJSON(w, http.StatusOK, s.Snapshot())
	case errors.Is(err, deals.ErrBusy):
		response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
	default:
		// The upstream error is logged by the session; clients get the banner text.
		response.WriteJSON(w, http.StatusBadGateway, response.GeneralError(errors.New(view.MsgTransport)))
	}
}
