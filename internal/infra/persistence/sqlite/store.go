// Package sqlite provides a SQLite-backed persistent store. Transactions run
// against the in-memory working set and every committed change is mirrored
// into normalised tables that report queries read directly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"farmcore/internal/entitymodel/sqlbundle"
	"farmcore/internal/infra/persistence/memory"
	"farmcore/internal/infra/persistence/sqlstore"
	"farmcore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

const defaultPath = "farmcore.db"

// Store persists state to a SQLite file.
type Store struct {
	*memory.Store
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path and hydrates the store from it.
func NewStore(path string, engine *domain.RulesEngine, opts ...memory.Option) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	mem, err := sqlstore.Open(context.Background(), db, sqlbundle.DialectSQLite, engine, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Store: mem, db: db, path: path}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// DB exposes the underlying sql.DB for report queries.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect reports the SQL dialect of the store.
func (s *Store) Dialect() sqlbundle.Dialect { return sqlbundle.DialectSQLite }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Reload rehydrates the working set from the database.
func (s *Store) Reload(ctx context.Context) error {
	return sqlstore.Reload(ctx, s.db, s.Store)
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
