// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like the registry. Each
// handler here is a factory: it receives the registry once at startup
// and returns the function the router calls on every request.
//
//	router.HandleFunc("POST /api/students", student.New(reg))
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/deals-registry/internal/registry"
	"github.com/aanand-mishra/deals-registry/internal/render"
	"github.com/aanand-mishra/deals-registry/internal/types"
	"github.com/aanand-mishra/deals-registry/internal/utils/response"
	"github.com/aanand-mishra/deals-registry/internal/view"
)

// Registry is the part of *registry.Registry the handlers need.
type Registry interface {
	Register(in types.StudentInput) (types.Student, registry.Result)
	Delete(id string, confirmed bool) error
	Get(id string) (types.Student, error)
	Search(term string) registry.SearchResult
}

// Listing is the body of GET /api/students.
type Listing struct {
	render.StudentListing
	Status view.Status `json:"status"`
}

// FieldMap converts validator results to the plain map the response
// envelope carries.
func FieldMap(res registry.Result) map[string]string {
	fields := make(map[string]string, len(res.FieldErrors))
	for f, msg := range res.FieldErrors {
		fields[string(f)] = msg
	}
	return fields
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Validates and registers a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "id": "A001", "name": "Ana Ruiz", "email": "ana@x.com",
//	  "career": "systems-engineering", "semester": 3 }
//
// Success response (201 Created): the rendered student.
//
// Error responses:
//
//	400 Bad Request  : empty body, malformed JSON, or failed validation
//	                   (one message per failing field under "fields")
//
// ─────────────────────────────────────────────────────────────────────────────
func New(reg Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("registering a student")

		var in types.StudentInput
		err := json.NewDecoder(r.Body).Decode(&in)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		student, res := reg.Register(in)
		if !res.Valid {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(FieldMap(res)))
			return
		}

		slog.Info("student registered", slog.String("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, render.Student(student))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students?q=term
// Returns the rendered collection, filtered when q is set. The total
// always counts the whole registry, and an empty listing carries the
// "no students" or "no matches" message.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(reg Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("q")
		slog.Debug("listing students", slog.String("q", term))

		res := reg.Search(term)
		response.WriteJSON(w, http.StatusOK, Listing{
			StudentListing: render.Students(res.Students, res.Total),
			Status:         res.Status,
		})
	}
}

// GetByID handles GET /api/students/{id}; 404 when the code is unknown.
func GetByID(reg Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		student, err := reg.Get(id)
		if err != nil {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, render.Student(student))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}?confirm=true
// Removes a student. The confirm parameter is the answer to the
// confirmation prompt; without it nothing is deleted.
//
// Success response (200 OK):
//
//	{ "status": "deleted" }
//
// Error responses:
//
//	400 Bad Request  : confirm missing, false, or not a boolean
//	404 Not Found    : no student with that code
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(reg Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

		err := reg.Delete(id, confirmed)
		switch {
		case errors.Is(err, registry.ErrConfirmationRequired):
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		case errors.Is(err, registry.ErrNotFound):
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
			return
		case err != nil:
			slog.Error("error deleting student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
