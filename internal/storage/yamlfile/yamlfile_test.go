package yamlfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/deals-registry/internal/storage"
)

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.yaml")
	s, err := New(path)
	require.NoError(t, err)

	t.Run("missing file reads as missing slot", func(t *testing.T) {
		_, err := s.Read("students")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("write keeps other slots", func(t *testing.T) {
		require.NoError(t, s.Write("students", []byte(`[{"id":"A001"}]`)))
		require.NoError(t, s.Write("other", []byte("x")))

		got, err := s.Read("students")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"A001"}]`, string(got))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "slots:")
	})

	t.Run("garbage file is an error", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("slots: [unclosed"), 0o644))
		_, err := s.Read("students")
		assert.Error(t, err)
	})
}
