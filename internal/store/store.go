// Package store picks the backend for the todo collection from
// configuration.
package store

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/store/sqlitestore"
	"github.com/Makepad-fr/tada/internal/todos"
)

var (
	_ todos.Store = (*jsonstore.FileStore)(nil)
	_ todos.Store = (*memstore.Store)(nil)
	_ todos.Store = (*sqlitestore.Store)(nil)
)

// Open returns the backend named by cfg.Driver. The returned close func is
// never nil.
func Open(cfg config.Storage, logger *log.Logger) (todos.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Driver {
	case config.DriverJSON, "":
		return jsonstore.New(cfg.Path,
			jsonstore.WithLogger(logger),
			jsonstore.WithDurableWrites(cfg.DurableWrites),
		), noop, nil
	case config.DriverMemory:
		return memstore.New(), noop, nil
	case config.DriverSQLite:
		s, err := sqlitestore.Open(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
