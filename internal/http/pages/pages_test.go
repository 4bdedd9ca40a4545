package pages

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/deals-registry/internal/deals"
	"github.com/aanand-mishra/deals-registry/internal/registry"
	"github.com/aanand-mishra/deals-registry/internal/storage/memory"
	"github.com/aanand-mishra/deals-registry/internal/types"
	"github.com/aanand-mishra/deals-registry/internal/view"
)

type staticSource map[int][]types.Deal

func (s staticSource) FetchPage(_ context.Context, index, _ int) ([]types.Deal, error) {
	return s[index], nil
}

type fixture struct {
	mux      *http.ServeMux
	session  *deals.Session
	registry *registry.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	session := deals.NewSession(staticSource{0: {
		{DealID: "d1", Title: "Portal 2", StoreID: "1", Thumb: "https://img/p2.jpg",
			NormalPrice: types.NewDecimal("19.99"), SalePrice: types.NewDecimal("1.99"),
			Savings: types.NewDecimal("90.04"), DealRating: types.NewDecimal("9.8")},
		{DealID: "d2", External: "Hades", StoreID: "7"},
	}}, deals.Options{Locale: "es-ES", Logger: log})
	require.NoError(t, session.Load(context.Background()))

	store := registry.NewStore(memory.New(), "students", log, nil)
	reg := registry.New(store, registry.Options{
		Logger: log,
		Now:    func() time.Time { return time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC) },
	})

	p, err := New(session, reg, "es-ES", log)
	require.NoError(t, err)
	mux := http.NewServeMux()
	p.Register(mux)
	return fixture{mux: mux, session: session, registry: reg}
}

func (f fixture) get(t *testing.T, target string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return rec, doc
}

func (f fixture) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestDealsGrid(t *testing.T) {
	f := newFixture(t)

	rec, doc := f.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "es", doc.Find("html").AttrOr("lang", ""))

	cards := doc.Find("#grid .card")
	require.Equal(t, 2, cards.Length())
	first := cards.First()
	assert.Equal(t, "Portal 2", first.Find(".title").Text())
	assert.Equal(t, "-90%", first.Find(".savings").Text())
	assert.Equal(t, "$1.99", first.Find(".sale-price").Text())

	second := cards.Eq(1)
	assert.Equal(t, "Hades", second.Find(".title").Text())
	assert.Equal(t, "N/A", second.Find(".normal-price").Text())
	assert.Zero(t, second.Find(".savings").Length())
	assert.Equal(t, "Rating: N/A", second.Find(".rating").Text())

	assert.Equal(t, 3, doc.Find("#store option").Length())
	assert.True(t, doc.Find("#loading").HasClass("hidden"))
	assert.Zero(t, doc.Find("#banner").Length())
}

func TestDealsGrid_FilterKeepsQueryInLinks(t *testing.T) {
	f := newFixture(t)

	_, doc := f.get(t, "/?q=hades&sort=name")
	cards := doc.Find("#grid .card")
	require.Equal(t, 1, cards.Length())
	assert.Equal(t, "/deals/0?q=hades&sort=name", cards.Find(".details").AttrOr("href", ""))
	assert.Equal(t, "/deals/more?q=hades&sort=name", doc.Find("#more").AttrOr("action", ""))
	assert.Equal(t, "hades", doc.Find("#search").AttrOr("value", ""))
	assert.Equal(t, "name", doc.Find("#sort option[selected]").AttrOr("value", ""))
}

func TestDealsGrid_EmptyResultBanner(t *testing.T) {
	f := newFixture(t)

	_, doc := f.get(t, "/?q=zzz")
	assert.Zero(t, doc.Find("#grid .card").Length())
	banner := doc.Find("#banner")
	require.Equal(t, 1, banner.Length())
	assert.Contains(t, banner.Text(), view.MsgEmptyResult)
	assert.True(t, banner.HasClass("info"))
}

func TestLoadMore_EndOfDataBanner(t *testing.T) {
	f := newFixture(t)

	rec := f.post("/deals/more?q=portal", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?q=portal", rec.Header().Get("Location"))

	_, doc := f.get(t, "/?q=portal")
	assert.Contains(t, doc.Find("#banner").Text(), view.MsgEndOfData)

	f.post("/deals/dismiss", nil)
	_, doc = f.get(t, "/?q=portal")
	assert.Zero(t, doc.Find("#banner").Length())
}

func TestDealDetail(t *testing.T) {
	f := newFixture(t)

	rec, doc := f.get(t, "/deals/0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Portal 2", doc.Find("#detail .title").Text())
	assert.Equal(t, "https://www.google.com/search?q=Portal%202", doc.Find(".search-link").AttrOr("href", ""))
	assert.Equal(t, "/", doc.Find("#close").AttrOr("href", ""))
	assert.Equal(t, 1, doc.Find(".deal-link").Length())

	rec, _ = f.get(t, "/deals/7")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudents_RegisterAndList(t *testing.T) {
	f := newFixture(t)

	_, doc := f.get(t, "/students")
	assert.Equal(t, view.MsgNoStudents, doc.Find("#empty").Text())
	assert.Equal(t, len(types.Careers())+1, doc.Find("select[name=career] option").Length())

	rec := f.post("/students", url.Values{
		"id": {"A001"}, "name": {"Ana Ruiz"}, "email": {"ana@x.com"},
		"career": {"systems-engineering"}, "semester": {"3"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	_, doc = f.get(t, "/students")
	rows := doc.Find("#students tbody tr")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "A001", rows.AttrOr("data-id", ""))
	assert.Contains(t, rows.Text(), "Systems Engineering")
	assert.Contains(t, rows.Text(), "15/1/2026")
	assert.Equal(t, "Total: 1", doc.Find("#total").Text())

	_, doc = f.get(t, "/students?q=zzz")
	assert.Equal(t, view.MsgNoMatches, doc.Find("#empty").Text())
}

func TestStudents_InlineErrors(t *testing.T) {
	f := newFixture(t)

	rec := f.post("/students", url.Values{
		"id": {"A1"}, "name": {"Ana Ruiz"}, "email": {"nope"},
		"career": {""}, "semester": {"eleven"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	errs := map[string]string{}
	doc.Find(".field-error").Each(func(_ int, s *goquery.Selection) {
		errs[s.AttrOr("data-field", "")] = s.Text()
	})
	assert.Equal(t, map[string]string{
		"id":       registry.MsgIDTooShort,
		"email":    registry.MsgEmailInvalid,
		"career":   registry.MsgCareerMissing,
		"semester": registry.MsgSemesterInvalid,
	}, errs)

	// Submitted values are redisplayed.
	assert.Equal(t, "Ana Ruiz", doc.Find("input[name=name]").AttrOr("value", ""))
	assert.Equal(t, "eleven", doc.Find("input[name=semester]").AttrOr("value", ""))
	assert.Zero(t, f.registry.Len())
}

func TestStudents_DeleteNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	_, res := f.registry.Register(types.StudentInput{
		ID: "A001", Name: "Ana Ruiz", Email: "ana@x.com", Career: "web-development", Semester: 2,
	})
	require.True(t, res.Valid)

	rec, doc := f.get(t, "/students/A001/delete")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, doc.Find("#question").Text(), "Ana Ruiz")

	f.post("/students/A001/delete", nil)
	assert.Equal(t, 1, f.registry.Len())

	rec = f.post("/students/A001/delete", url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, f.registry.Len())

	rec, _ = f.get(t, "/students/A001/delete")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
