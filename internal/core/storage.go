package core

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"farmcore/internal/entitymodel/sqlbundle"
	"farmcore/internal/infra/persistence/memory"
	"farmcore/internal/infra/persistence/postgres"
	"farmcore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// StorageOptions selects and parameterises the persistent store.
type StorageOptions struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
}

// SQLStore is implemented by stores whose normalised tables can be queried
// directly, which report providers require.
type SQLStore interface {
	PersistentStore
	DB() *sql.DB
	Dialect() sqlbundle.Dialect
}

// Reloader is implemented by stores that can re-read state committed by
// other processes.
type Reloader interface {
	Reload(ctx context.Context) error
}

// OpenPersistentStore opens the backend named by opts.Driver, defaulting to sqlite.
func OpenPersistentStore(ctx context.Context, opts StorageOptions, engine *RulesEngine) (PersistentStore, error) {
	driver := opts.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		return sqlite.NewStore(opts.SQLitePath, engine)
	case StoragePostgres:
		return postgres.NewStore(ctx, opts.PostgresDSN, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// CloseStore releases store resources when the backend holds any.
func CloseStore(store PersistentStore) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Reload refreshes the service's working set from its backing database. It
// reports false when the store keeps no shared state to reload from.
func (s *Service) Reload(ctx context.Context) (bool, error) {
	r, ok := s.store.(Reloader)
	if !ok {
		return false, nil
	}
	if err := r.Reload(ctx); err != nil {
		return true, fmt.Errorf("reload store: %w", err)
	}
	s.logger.Debug("store reloaded")
	return true, nil
}
