package registry

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/aanand-mishra/deals-registry/internal/metrics"
	"github.com/aanand-mishra/deals-registry/internal/storage"
	"github.com/aanand-mishra/deals-registry/internal/types"
)

// Store adapts a storage.Storage slot to the student collection.
//
// Neither method returns an error. A backend that refuses writes (full
// disk, read-only mount, disabled store) is logged and counted; a slot
// that cannot be decoded is treated as "no data".
type Store struct {
	backend storage.Storage
	slot    string
	log     *slog.Logger
	metrics *metrics.Registry
}

func NewStore(backend storage.Storage, slot string, log *slog.Logger, m *metrics.Registry) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{backend: backend, slot: slot, log: log, metrics: m}
}

// Save writes the full collection as one JSON array, replacing whatever
// the slot held before. It reports whether the write reached the backend.
func (s *Store) Save(records []types.Student) bool {
	if records == nil {
		records = []types.Student{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		s.log.Warn("cannot encode students", slog.String("error", err.Error()))
		s.metrics.ObserveStoreWriteFailure()
		return false
	}

	if err := s.backend.Write(s.slot, data); err != nil {
		s.log.Warn("cannot persist students",
			slog.String("slot", s.slot),
			slog.String("error", err.Error()))
		s.metrics.ObserveStoreWriteFailure()
		return false
	}

	return true
}

// Load returns the persisted collection, or an empty slice when the slot
// is missing, unreadable or corrupt.
func (s *Store) Load() []types.Student {
	data, err := s.backend.Read(s.slot)
	if errors.Is(err, storage.ErrNotFound) {
		return []types.Student{}
	}
	if err != nil {
		s.log.Warn("cannot read students slot",
			slog.String("slot", s.slot),
			slog.String("error", err.Error()))
		s.metrics.ObserveStoreLoadFailure()
		return []types.Student{}
	}

	var records []types.Student
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn("students slot is corrupt, starting empty",
			slog.String("slot", s.slot),
			slog.String("error", err.Error()))
		s.metrics.ObserveStoreLoadFailure()
		return []types.Student{}
	}
	if records == nil {
		records = []types.Student{}
	}

	return records
}
