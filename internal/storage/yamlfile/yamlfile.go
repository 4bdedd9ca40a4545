// Package yamlfile keeps slots in a single human-editable YAML document:
//
//	slots:
//	  students: '[{"id":"A001", ...}]'
//
// Every write loads the whole file, replaces one slot and writes the file
// back, all under a mutex.
package yamlfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aanand-mishra/deals-registry/internal/storage"
)

// document is the on-disk layout.
type document struct {
	Slots map[string]string `yaml:"slots"`
}

type Store struct {
	filename string
	mutex    sync.RWMutex
}

func New(filename string) (*Store, error) {
	if dir := filepath.Dir(filename); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("yamlfile: create dir: %w", err)
		}
	}
	return &Store{filename: filename}, nil
}

func (s *Store) Read(name string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	doc, err := s.loadUnsafe()
	if err != nil {
		return nil, err
	}
	value, ok := doc.Slots[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return []byte(value), nil
}

func (s *Store) Write(name string, data []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, err := s.loadUnsafe()
	if err != nil {
		return err
	}
	doc.Slots[name] = string(data)
	return s.saveUnsafe(doc)
}

func (s *Store) Close() error { return nil }

// loadUnsafe reads the document without locking. A missing file is an
// empty document.
func (s *Store) loadUnsafe() (document, error) {
	doc := document{Slots: map[string]string{}}

	data, err := os.ReadFile(s.filename)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("yamlfile: read file: %w", err)
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("yamlfile: parse YAML: %w", err)
	}
	if doc.Slots == nil {
		doc.Slots = map[string]string{}
	}
	return doc, nil
}

// saveUnsafe writes to a temp file and renames it over the target so a
// crash mid-write never leaves a truncated document.
func (s *Store) saveUnsafe(doc document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("yamlfile: encode YAML: %w", err)
	}

	tmp := s.filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("yamlfile: write file: %w", err)
	}
	if err := os.Rename(tmp, s.filename); err != nil {
		return fmt.Errorf("yamlfile: replace file: %w", err)
	}
	return nil
}
