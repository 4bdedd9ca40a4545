// Package backend opens the storage.Storage implementation named by the
// configuration. It is the only place that knows every driver.
package backend

import (
	"fmt"

	"github.com/aanand-mishra/deals-registry/internal/config"
	"github.com/aanand-mishra/deals-registry/internal/storage"
	"github.com/aanand-mishra/deals-registry/internal/storage/memory"
	"github.com/aanand-mishra/deals-registry/internal/storage/pebble"
	"github.com/aanand-mishra/deals-registry/internal/storage/sqlite"
	"github.com/aanand-mishra/deals-registry/internal/storage/yamlfile"
)

func Open(cfg *config.Config) (storage.Storage, error) {
	var (
		s   storage.Storage
		err error
	)

	// Assign s only on success: a nil *T stored in the interface is non-nil.
	switch cfg.Storage.Driver {
	case "sqlite":
		var db *sqlite.SQLite
		if db, err = sqlite.New(cfg); err == nil {
			s = db
		}
	case "pebble":
		var db *pebble.Store
		if db, err = pebble.New(cfg.Storage.Path); err == nil {
			s = db
		}
	case "yaml":
		var f *yamlfile.Store
		if f, err = yamlfile.New(cfg.Storage.Path); err == nil {
			s = f
		}
	case "memory":
		s = memory.New()
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("backend.Open: %w", err)
	}
	return s, nil
}
