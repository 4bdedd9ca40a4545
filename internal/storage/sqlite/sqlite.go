// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. A slot table with one row per slot name is all the registry
// needs.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/deals-registry/internal/config"
	"github.com/aanand-mishra/deals-registry/internal/storage"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.Storage.Path, creates the slots
// table if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	path := cfg.Storage.Path
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Schema:
	//   name  : slot key, e.g. "students"
	//   value : the serialized blob, replaced whole on every write
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			name  TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Read fetches the blob stored under name.
//
// QueryRow returns exactly one row. If the query finds no match the error
// surfaces only when Scan is called, as sql.ErrNoRows, which is mapped to
// storage.ErrNotFound so callers never depend on database/sql.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Read(name string) ([]byte, error) {
	stmt, err := s.Db.Prepare("SELECT value FROM slots WHERE name = ? LIMIT 1")
	if err != nil {
		return nil, fmt.Errorf("Read: prepare: %w", err)
	}
	defer stmt.Close()

	var value string
	if err := stmt.QueryRow(name).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("Read: scan: %w", err)
	}

	return []byte(value), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Write upserts the slot. The previous value is fully replaced.
//
// Prepared statements keep the slot name and the blob as pure data, so a
// student named "'; DROP TABLE slots; --" is stored, not executed.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Write(name string, data []byte) error {
	stmt, err := s.Db.Prepare(`
		INSERT INTO slots (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		return fmt.Errorf("Write: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(name, string(data)); err != nil {
		return fmt.Errorf("Write: exec: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
