// Package pages serves the HTML front-end: the deals grid and detail
// overlay, and the student registry form.
//
// Templates only bind data. Every value they show is produced by the
// render package or a session snapshot before execution.
package pages

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/text/language"

	"github.com/aanand-mishra/deals-registry/internal/deals"
	"github.com/aanand-mishra/deals-registry/internal/http/handlers/deal"
	"github.com/aanand-mishra/deals-registry/internal/http/handlers/student"
	"github.com/aanand-mishra/deals-registry/internal/registry"
	"github.com/aanand-mishra/deals-registry/internal/render"
	"github.com/aanand-mishra/deals-registry/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageDeals         = "deals.html"
	pageDeal          = "deal.html"
	pageStudents      = "students.html"
	pageConfirmDelete = "confirm_delete.html"
)

// Pages owns the parsed templates and the two sessions they display.
type Pages struct {
	deals    deal.Session
	students student.Registry
	log      *slog.Logger
	lang     string
	tmpl     map[string]*template.Template
}

// New parses every page together with the shared layout.
func New(ds deal.Session, reg student.Registry, locale string, log *slog.Logger) (*Pages, error) {
	lang := "en"
	if tag, err := language.Parse(locale); err == nil {
		base, _ := tag.Base()
		lang = base.String()
	}

	p := &Pages{
		deals:    ds,
		students: reg,
		log:      log,
		lang:     lang,
		tmpl:     make(map[string]*template.Template),
	}
	for _, name := range []string{pageDeals, pageDeal, pageStudents, pageConfirmDelete} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("pages.New: parse %s: %w", name, err)
		}
		p.tmpl[name] = t
	}
	return p, nil
}

// Register attaches the page routes to mux.
func (p *Pages) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", p.dealsGrid)
	mux.HandleFunc("GET /deals/{index}", p.dealDetail)
	mux.HandleFunc("POST /deals/more", p.loadMore)
	mux.HandleFunc("POST /deals/reload", p.reload)
	mux.HandleFunc("POST /deals/dismiss", p.dismiss)

	mux.HandleFunc("GET /students", p.studentList)
	mux.HandleFunc("POST /students", p.registerStudent)
	mux.HandleFunc("GET /students/{id}/delete", p.confirmDelete)
	mux.HandleFunc("POST /students/{id}/delete", p.deleteStudent)
}

type page struct {
	Title string
	Lang  string
	// Query is the grid's filter as "?q=…", carried through links and
	// forms so the view survives a round trip.
	Query string
}

type sortOption struct {
	Value    deals.SortKey
	Label    string
	Selected bool
}

type dealsData struct {
	page
	Snapshot    deals.Snapshot
	SortOptions []sortOption
}

type dealData struct {
	page
	Detail render.DealDetail
}

type careerOption struct {
	Value string
	Label string
}

type studentsData struct {
	page
	Term     string
	Form     types.StudentInput
	Semester string
	Errors   map[string]string
	Careers  []careerOption
	Listing  render.StudentListing
}

type confirmData struct {
	page
	Student render.StudentCard
}

func (p *Pages) base(title string, f deals.Filter) page {
	return page{Title: title, Lang: p.lang, Query: filterQuery(f)}
}

func filterQuery(f deals.Filter) string {
	v := url.Values{}
	if f.Term != "" {
		v.Set("q", f.Term)
	}
	if f.Store != "" {
		v.Set("store", f.Store)
	}
	if f.Sort != deals.SortNone {
		v.Set("sort", string(f.Sort))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func sortOptions(selected deals.SortKey) []sortOption {
	opts := []sortOption{
		{Value: deals.SortNone, Label: "Sort by"},
		{Value: deals.SortRating, Label: "Best rated"},
		{Value: deals.SortRecent, Label: "Most recent"},
		{Value: deals.SortName, Label: "Name"},
	}
	for i := range opts {
		opts[i].Selected = opts[i].Value == selected
	}
	return opts
}

func careerOptions() []careerOption {
	careers := types.Careers()
	opts := make([]careerOption, 0, len(careers))
	for _, c := range careers {
		opts = append(opts, careerOption{Value: string(c), Label: c.DisplayName()})
	}
	return opts
}

// render executes into a buffer first; a template error yields a bare 500
// with no partial page.
func (p *Pages) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.tmpl[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		p.log.Error("template execution failed", slog.String("page", name), slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// ── Deals ────────────────────────────────────────────────────────────────────

// filter reads the grid filter; an unknown sort key falls back to none.
func filter(r *http.Request) deals.Filter {
	f, err := deal.ParseFilter(r)
	if err != nil {
		q := r.URL.Query()
		return deals.Filter{Term: q.Get("q"), Store: q.Get("store")}
	}
	return f
}

func (p *Pages) dealsGrid(w http.ResponseWriter, r *http.Request) {
	f := filter(r)
	p.deals.Apply(f)
	snap := p.deals.Snapshot()

	p.render(w, http.StatusOK, pageDeals, dealsData{
		page:        p.base("Game deals", f),
		Snapshot:    snap,
		SortOptions: sortOptions(f.Sort),
	})
}

func (p *Pages) dealDetail(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	f := filter(r)
	p.deals.Apply(f)
	detail, err := p.deals.Detail(index)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	p.render(w, http.StatusOK, pageDeal, dealData{
		page:   p.base(detail.Title, f),
		Detail: detail,
	})
}

// loadMore, reload and dismiss answer with a redirect back to the grid;
// the outcome shows up in the grid's status banner.
func (p *Pages) loadMore(w http.ResponseWriter, r *http.Request) {
	f := filter(r)
	p.deals.Apply(f)
	if err := p.deals.LoadMore(r.Context()); errors.Is(err, deals.ErrBusy) {
		p.log.Debug("load more rejected, request in flight")
	}
	http.Redirect(w, r, "/"+filterQuery(f), http.StatusSeeOther)
}

func (p *Pages) reload(w http.ResponseWriter, r *http.Request) {
	_ = p.deals.Load(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p *Pages) dismiss(w http.ResponseWriter, r *http.Request) {
	p.deals.DismissBanner()
	http.Redirect(w, r, "/"+filterQuery(filter(r)), http.StatusSeeOther)
}

// ── Students ─────────────────────────────────────────────────────────────────

func (p *Pages) studentsPage(term string) studentsData {
	res := p.students.Search(term)
	return studentsData{
		page:    page{Title: "Student registry", Lang: p.lang},
		Term:    term,
		Careers: careerOptions(),
		Listing: render.Students(res.Students, res.Total),
	}
}

func (p *Pages) studentList(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusOK, pageStudents, p.studentsPage(r.URL.Query().Get("q")))
}

func (p *Pages) registerStudent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	// A non-numeric semester becomes 0 and fails the range check.
	semester, _ := strconv.Atoi(r.PostFormValue("semester"))
	in := types.StudentInput{
		ID:       r.PostFormValue("id"),
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Career:   r.PostFormValue("career"),
		Semester: semester,
	}

	if _, res := p.students.Register(in); !res.Valid {
		data := p.studentsPage("")
		data.Form = in
		data.Semester = r.PostFormValue("semester")
		data.Errors = student.FieldMap(res)
		p.render(w, http.StatusBadRequest, pageStudents, data)
		return
	}

	http.Redirect(w, r, "/students", http.StatusSeeOther)
}

func (p *Pages) confirmDelete(w http.ResponseWriter, r *http.Request) {
	s, err := p.students.Get(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	p.render(w, http.StatusOK, pageConfirmDelete, confirmData{
		page:    page{Title: "Delete student", Lang: p.lang},
		Student: render.Student(s),
	})
}

func (p *Pages) deleteStudent(w http.ResponseWriter, r *http.Request) {
	confirmed := r.PostFormValue("confirm") == "yes"

	err := p.students.Delete(r.PathValue("id"), confirmed)
	if errors.Is(err, registry.ErrNotFound) {
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, "/students", http.StatusSeeOther)
}
