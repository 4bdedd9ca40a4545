// Package registry is the student registry: validated creation,
// confirmation-gated deletion, search, and a persisted collection kept in
// lockstep with memory.
//
// A Registry is the session object owning the live collection. Every
// mutation holds the lock across the in-memory change and the store
// flush, so no reader can observe a changed collection next to a stale
// slot.
package registry

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aanand-mishra/deals-registry/internal/metrics"
	"github.com/aanand-mishra/deals-registry/internal/types"
	"github.com/aanand-mishra/deals-registry/internal/view"
)

var (
	ErrNotFound             = errors.New("registry: student not found")
	ErrConfirmationRequired = errors.New("registry: deletion must be confirmed")
)

// Options tunes a Registry. The zero value is usable.
type Options struct {
	// Locale formats RegistrationDate. Defaults to es-ES.
	Locale  string
	Now     func() time.Time
	Logger  *slog.Logger
	Metrics *metrics.Registry
}

type Registry struct {
	mu       sync.Mutex
	students []types.Student
	store    *Store
	locale   string
	now      func() time.Time
	log      *slog.Logger
	metrics  *metrics.Registry
}

// New loads the persisted collection from store and returns the session.
func New(store *Store, opts Options) *Registry {
	if opts.Locale == "" {
		opts.Locale = "es-ES"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := &Registry{
		students: store.Load(),
		store:    store,
		locale:   opts.Locale,
		now:      opts.Now,
		log:      opts.Logger,
		metrics:  opts.Metrics,
	}
	r.metrics.SetStudentsTotal(len(r.students))
	r.log.Debug("registry loaded", slog.Int("students", len(r.students)))
	return r
}

// Register validates in and, when valid, appends the new record and
// flushes the collection. On failure nothing is stored and the returned
// Student is the zero value.
func (r *Registry) Register(in types.StudentInput) (types.Student, Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := Validate(in, r.idsLocked())
	if !res.Valid {
		r.metrics.ObserveRegistration(false, len(r.students))
		return types.Student{}, res
	}

	in = Normalize(in)
	student := types.Student{
		ID:               in.ID,
		Name:             in.Name,
		Email:            in.Email,
		Career:           types.Career(in.Career),
		Semester:         in.Semester,
		RegistrationDate: FormatDate(r.now(), r.locale),
	}

	r.students = append(r.students, student)
	r.store.Save(r.students)

	r.metrics.ObserveRegistration(true, len(r.students))
	r.log.Info("student registered", slog.String("id", student.ID))
	return student, res
}

// Delete removes the student with the given code. confirmed carries the
// user's answer to the confirmation prompt; without it nothing happens.
func (r *Registry) Delete(id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.students, func(s types.Student) bool { return s.ID == id })
	if i < 0 {
		return ErrNotFound
	}

	r.students = slices.Delete(r.students, i, i+1)
	r.store.Save(r.students)

	r.metrics.ObserveDeletion(len(r.students))
	r.log.Info("student deleted", slog.String("id", id))
	return nil
}

// Get returns the student with the given code.
func (r *Registry) Get(id string) (types.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return types.Student{}, ErrNotFound
}

// All returns a copy of the live collection in insertion order.
func (r *Registry) All() []types.Student {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.students)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.students)
}

// SearchResult is a filtered view of the collection. Total is the size of
// the whole collection, not of the match set.
type SearchResult struct {
	Term     string
	Students []types.Student
	Total    int
	Status   view.Status
}

// Search matches term case-insensitively against name, code and email. An
// empty term returns everything. A non-empty term with no matches yields
// an EmptyResult status rather than a failure.
func (r *Registry) Search(term string) SearchResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	term = strings.ToLower(strings.TrimSpace(term))
	res := SearchResult{Term: term, Total: len(r.students), Students: []types.Student{}}

	for _, s := range r.students {
		if term == "" || matches(s, term) {
			res.Students = append(res.Students, s)
		}
	}

	if term != "" && len(res.Students) == 0 {
		res.Status.Fail(view.EmptyResult, view.MsgNoMatches)
	} else {
		res.Status.Succeed()
	}
	return res
}

func matches(s types.Student, term string) bool {
	return strings.Contains(strings.ToLower(s.Name), term) ||
		strings.Contains(strings.ToLower(s.ID), term) ||
		strings.Contains(strings.ToLower(s.Email), term)
}

func (r *Registry) idsLocked() map[string]struct{} {
	ids := make(map[string]struct{}, len(r.students))
	for _, s := range r.students {
		ids[s.ID] = struct{}{}
	}
	return ids
}
