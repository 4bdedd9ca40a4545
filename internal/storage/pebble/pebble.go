// Package pebble stores slots in a Pebble LSM directory, one key per slot.
package pebble

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"github.com/aanand-mishra/deals-registry/internal/storage"
)

// Store implements storage.Storage using PebbleDB.
type Store struct {
	db *pebble.DB
}

func New(dir string) (*Store, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Read(name string) ([]byte, error) {
	v, closer, err := s.db.Get([]byte(name))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pebble get %q: %w", name, err)
	}
	defer closer.Close()

	// v is only valid until closer.Close.
	return append([]byte(nil), v...), nil
}

// Write syncs before returning; the registry flushes on every mutation
// and relies on the write being durable once it reports success.
func (s *Store) Write(name string, data []byte) error {
	if err := s.db.Set([]byte(name), data, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set %q: %w", name, err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
