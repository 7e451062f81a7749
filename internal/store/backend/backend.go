// Package backend opens the store implementation a configuration selects.
package backend

import (
	"fmt"
	"time"

	"viewpulse/internal/config"
	"viewpulse/internal/faults"
	"viewpulse/internal/store"
	"viewpulse/internal/store/filestore"
	"viewpulse/internal/store/sqlitestore"
)

// Open returns the configured store. The caller owns Close.
func Open(cfg *config.Config) (store.Store, error) {
	if cfg == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "store", "open", "config is nil", nil)
	}
	timeout := time.Duration(cfg.Store.LockTimeoutSeconds) * time.Second
	switch cfg.Store.Backend {
	case config.BackendFiles, "":
		return filestore.Open(cfg.Paths.DataDir, timeout)
	case config.BackendSQLite:
		return sqlitestore.Open(cfg.Store.SQLitePath, timeout)
	default:
		return nil, faults.Wrap(faults.ErrConfiguration, "store", "open", fmt.Sprintf("unknown backend %q", cfg.Store.Backend), nil)
	}
}
