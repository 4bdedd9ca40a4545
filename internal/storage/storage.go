// Package storage defines the Storage interface: a contract that any
// persistence backend must satisfy to hold the application's named slots.
//
// A slot is a single key holding one serialized blob. The registry keeps
// its entire student collection in one slot and rewrites it on every
// mutation, so backends only need whole-value reads and writes.
//
// Backends live in sub-packages (sqlite, pebble, yamlfile, memory) and are
// selected at startup by the backend package. Handlers and sessions only
// ever see this interface.
package storage

import "errors"

// ErrNotFound is returned by Read when the slot has never been written.
var ErrNotFound = errors.New("storage: slot not found")

// Storage is the slot persistence contract.
type Storage interface {
	// Read returns the raw bytes stored under name, or ErrNotFound.
	Read(name string) ([]byte, error)

	// Write replaces the content of the slot with data.
	Write(name string, data []byte) error

	// Close releases files and handles held by the backend.
	Close() error
}
