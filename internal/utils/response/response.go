// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every JSON handler in this application goes through WriteJSON, so all
// of them set the same content type and every error body has the same
// shape.
package response

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a student, a listing, a
// deal…). Error responses always look like:
//
//	{ "status": "error", "error": "semester must be between 1 and 10" }
//
// Validation failures also carry the per-field messages so a form can
// render each one next to its input:
//
//	{ "status": "error", "error": "...", "fields": { "semester": "..." } }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string            `json:"status"` // "ok" or "error"
	Error  string            `json:"error"`  // human-readable error detail
	Fields map[string]string `json:"fields,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError turns a field → message map into a Response.
//
// The messages are also joined into Error, ordered by field name, so a
// client that only reads "error" still sees every problem:
//
//	{ "status": "error", "error": "email: enter a valid email address, name: ..." }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(fields map[string]string) Response {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, name+": "+fields[name])
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(msgs, ", "),
		Fields: fields,
	}
}
