// Package memory is an in-process storage.Storage used by tests and by
// the "memory" driver. Nothing survives a restart.
package memory

import (
	"errors"
	"sync"

	"github.com/aanand-mishra/deals-registry/internal/storage"
)

// ErrDisabled is returned by every Write on a disabled store.
var ErrDisabled = errors.New("memory: storage is disabled")

type Memory struct {
	mu       sync.RWMutex
	slots    map[string][]byte
	disabled bool
}

func New() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

// NewDisabled returns a store that refuses every write, the way browser
// storage behaves in private mode. Reads report ErrNotFound.
func NewDisabled() *Memory {
	m := New()
	m.disabled = true
	return m
}

func (m *Memory) Read(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.slots[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Write(name string, data []byte) error {
	if m.disabled {
		return ErrDisabled
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[name] = append([]byte(nil), data...)
	return nil
}

// Set writes raw bytes even on a disabled store. Tests use it to plant
// corrupt slot content.
func (m *Memory) Set(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name] = append([]byte(nil), data...)
}

func (m *Memory) Close() error { return nil }
