package student

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/deals-registry/internal/registry"
	"github.com/aanand-mishra/deals-registry/internal/render"
	"github.com/aanand-mishra/deals-registry/internal/storage/memory"
	"github.com/aanand-mishra/deals-registry/internal/utils/response"
	"github.com/aanand-mishra/deals-registry/internal/view"
)

const anaJSON = `{"id":"A001","name":"Ana Ruiz","email":"ana@x.com","career":"systems-engineering","semester":3}`

func newRouter(t *testing.T) (*http.ServeMux, *registry.Registry) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := registry.NewStore(memory.New(), "students", log, nil)
	reg := registry.New(store, registry.Options{
		Logger: log,
		Now:    func() time.Time { return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC) },
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/students", New(reg))
	mux.HandleFunc("GET /api/students", GetList(reg))
	mux.HandleFunc("GET /api/students/{id}", GetByID(reg))
	mux.HandleFunc("DELETE /api/students/{id}", Delete(reg))
	return mux, reg
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func TestNew_Created(t *testing.T) {
	mux, reg := newRouter(t)

	rec := do(mux, http.MethodPost, "/api/students", anaJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var card render.StudentCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	assert.Equal(t, "A001", card.ID)
	assert.Equal(t, "Systems Engineering", card.Career)
	assert.Equal(t, "1/3/2026", card.RegistrationDate)
	assert.Equal(t, 1, reg.Len())
}

func TestNew_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{name: "empty body"},
		{name: "malformed", body: `{"id":`},
		{
			name:   "every field invalid",
			body:   `{"id":"A1","name":"Al","email":"nope","career":"","semester":11}`,
			fields: []string{"id", "name", "email", "career", "semester"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, reg := newRouter(t)

			rec := do(mux, http.MethodPost, "/api/students", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, response.StatusError, resp.Status)
			assert.NotEmpty(t, resp.Error)
			for _, f := range tt.fields {
				assert.Contains(t, resp.Fields, f)
			}
			assert.Zero(t, reg.Len())
		})
	}
}

func TestNew_Duplicate(t *testing.T) {
	mux, _ := newRouter(t)
	require.Equal(t, http.StatusCreated, do(mux, http.MethodPost, "/api/students", anaJSON).Code)

	rec := do(mux, http.MethodPost, "/api/students", anaJSON)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, registry.MsgIDDuplicate, resp.Fields["id"])
}

func TestGetList(t *testing.T) {
	mux, _ := newRouter(t)

	var empty Listing
	require.NoError(t, json.Unmarshal(do(mux, http.MethodGet, "/api/students", "").Body.Bytes(), &empty))
	assert.Equal(t, view.MsgNoStudents, empty.Message)
	assert.Empty(t, empty.Cards)

	do(mux, http.MethodPost, "/api/students", anaJSON)

	rec := do(mux, http.MethodGet, "/api/students?q=ana", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var found Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Equal(t, 1, found.Total)
	require.Len(t, found.Cards, 1)
	assert.Empty(t, found.Message)

	var none map[string]any
	require.NoError(t, json.Unmarshal(do(mux, http.MethodGet, "/api/students?q=zzz", "").Body.Bytes(), &none))
	assert.Equal(t, view.MsgNoMatches, none["message"])
	assert.Equal(t, "empty_result", none["status"].(map[string]any)["kind"])
}

func TestGetByID(t *testing.T) {
	mux, _ := newRouter(t)
	do(mux, http.MethodPost, "/api/students", anaJSON)

	assert.Equal(t, http.StatusOK, do(mux, http.MethodGet, "/api/students/A001", "").Code)
	assert.Equal(t, http.StatusNotFound, do(mux, http.MethodGet, "/api/students/B002", "").Code)
}

func TestDelete(t *testing.T) {
	mux, reg := newRouter(t)
	do(mux, http.MethodPost, "/api/students", anaJSON)

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodDelete, "/api/students/A001", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodDelete, "/api/students/A001?confirm=false", "").Code)
	assert.Equal(t, 1, reg.Len())

	assert.Equal(t, http.StatusNotFound, do(mux, http.MethodDelete, "/api/students/B002?confirm=true", "").Code)

	rec := do(mux, http.MethodDelete, "/api/students/A001?confirm=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"deleted"}`, rec.Body.String())
	assert.Zero(t, reg.Len())
}
