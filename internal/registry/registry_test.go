package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/deals-registry/internal/storage/memory"
	"github.com/aanand-mishra/deals-registry/internal/types"
	"github.com/aanand-mishra/deals-registry/internal/view"
)

var fixedNow = func() time.Time { return time.Date(2026, time.October, 4, 9, 30, 0, 0, time.UTC) }

func newRegistry(t *testing.T) (*Registry, *Store) {
	t.Helper()
	store := NewStore(memory.New(), "students", quietLogger(), nil)
	return New(store, Options{Now: fixedNow, Logger: quietLogger()}), store
}

func TestRegistry_RegisterScenario(t *testing.T) {
	reg, store := newRegistry(t)

	student, res := reg.Register(validInput())
	require.True(t, res.Valid)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, "4/10/2026", student.RegistrationDate)
	assert.Equal(t, types.CareerWebDevelopment, student.Career)

	persisted := store.Load()
	require.Len(t, persisted, 1)
	assert.Equal(t, student, persisted[0])

	found := reg.Search("ana")
	require.Len(t, found.Students, 1)
	assert.Equal(t, "A001", found.Students[0].ID)
	assert.Equal(t, view.Success, found.Status.Phase)

	none := reg.Search("zzz")
	assert.NotNil(t, none.Students)
	assert.Empty(t, none.Students)
	assert.Equal(t, view.EmptyResult, none.Status.Kind)
	assert.False(t, none.Status.Failed())
	assert.Equal(t, 1, none.Total)
}

func TestRegistry_RejectsDuplicate(t *testing.T) {
	reg, store := newRegistry(t)
	_, res := reg.Register(validInput())
	require.True(t, res.Valid)

	dup := validInput()
	dup.Name = "Another Person"
	dup.Email = "other@b.com"
	_, res = reg.Register(dup)

	assert.False(t, res.Valid)
	assert.Equal(t, MsgIDDuplicate, res.Error(FieldID))
	assert.Equal(t, 1, reg.Len())
	assert.Len(t, store.Load(), 1)
}

func TestRegistry_InvalidSubmissionSavesNothing(t *testing.T) {
	reg, store := newRegistry(t)

	in := validInput()
	in.Semester = 11
	_, res := reg.Register(in)

	assert.False(t, res.Valid)
	assert.Zero(t, reg.Len())
	assert.Empty(t, store.Load())
}

func TestRegistry_TrimsBeforeStoring(t *testing.T) {
	reg, _ := newRegistry(t)

	in := validInput()
	in.Name = "  Ana Ruiz  "
	in.ID = " A001 "
	student, res := reg.Register(in)

	require.True(t, res.Valid)
	assert.Equal(t, "Ana Ruiz", student.Name)
	assert.Equal(t, "A001", student.ID)
}

func TestRegistry_Delete(t *testing.T) {
	reg, store := newRegistry(t)
	reg.Register(validInput())

	t.Run("requires confirmation", func(t *testing.T) {
		assert.ErrorIs(t, reg.Delete("A001", false), ErrConfirmationRequired)
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.ErrorIs(t, reg.Delete("Z999", true), ErrNotFound)
	})

	t.Run("confirmed delete flushes store", func(t *testing.T) {
		require.NoError(t, reg.Delete("A001", true))
		assert.Zero(t, reg.Len())
		assert.Empty(t, store.Load())

		_, err := reg.Get("A001")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRegistry_LoadsPersistedCollection(t *testing.T) {
	backend := memory.New()
	store := NewStore(backend, "students", quietLogger(), nil)
	store.Save(sampleStudents())

	reg := New(store, Options{Logger: quietLogger()})
	assert.Equal(t, 2, reg.Len())

	_, res := reg.Register(types.StudentInput{ID: "B002", Name: "Copy Cat", Email: "c@c.com", Career: "computer-science", Semester: 2})
	assert.Equal(t, MsgIDDuplicate, res.Error(FieldID))
}

func TestRegistry_SearchMatchesCodeAndEmail(t *testing.T) {
	backend := memory.New()
	store := NewStore(backend, "students", quietLogger(), nil)
	store.Save(sampleStudents())
	reg := New(store, Options{Logger: quietLogger()})

	assert.Len(t, reg.Search("b002").Students, 1)
	assert.Len(t, reg.Search("UNI.EDU").Students, 1)
	assert.Len(t, reg.Search("   ").Students, 2)
}

func TestRegistry_DisabledStoreKeepsWorking(t *testing.T) {
	store := NewStore(memory.NewDisabled(), "students", quietLogger(), nil)
	reg := New(store, Options{Logger: quietLogger()})

	_, res := reg.Register(validInput())
	assert.True(t, res.Valid)
	assert.Equal(t, 1, reg.Len())
}

func TestDateLayout(t *testing.T) {
	day := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	tests := map[string]string{
		"es-ES": "7/3/2026",
		"es":    "7/3/2026",
		"en-US": "3/7/2026",
		"en-GB": "07/03/2026",
		"de-DE": "7.3.2026",
		"??":    "2026-03-07",
		"ja-JP": "2026-03-07",
	}
	for locale, want := range tests {
		assert.Equal(t, want, FormatDate(day, locale), locale)
	}
}
