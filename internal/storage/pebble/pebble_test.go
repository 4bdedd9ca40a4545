package pebble

import (
	"testing"

	"github.com/aanand-mishra/deals-registry/internal/storage"
)

func TestStore_WriteReadReplace(t *testing.T) {
	dir := t.TempDir()
	st, err := New(dir)
	if err != nil {
		t.Fatalf("pebble open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if _, err := st.Read("students"); err != storage.ErrNotFound {
		t.Fatalf("missing slot: got %v want ErrNotFound", err)
	}

	if err := st.Write("students", []byte(`[{"id":"A001"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := st.Write("students", []byte(`[{"id":"B002"}]`)); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	got, err := st.Read("students")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `[{"id":"B002"}]` {
		t.Fatalf("read=%s want latest value", got)
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	st, err := New(dir)
	if err != nil {
		t.Fatalf("pebble open: %v", err)
	}
	if err := st.Write("students", []byte("[]")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = New(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	got, err := st.Read("students")
	if err != nil || string(got) != "[]" {
		t.Fatalf("after reopen: %q err=%v", got, err)
	}
}
