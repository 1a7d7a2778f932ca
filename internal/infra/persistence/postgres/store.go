// Package postgres provides a Postgres-backed persistent store that mirrors the
// in-memory semantics while keeping normalised tables current for reports.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"farmcore/internal/entitymodel/sqlbundle"
	"farmcore/internal/infra/persistence/memory"
	"farmcore/internal/infra/persistence/sqlstore"
	"farmcore/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/farmcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists state to Postgres while reusing the in-memory implementation for transactions.
type Store struct {
	*memory.Store
	db *sql.DB
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back to defaultDSN).
// It applies the entity-model DDL and hydrates the in-memory store from the tables.
func NewStore(ctx context.Context, dsn string, engine *domain.RulesEngine, opts ...memory.Option) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	mem, err := sqlstore.Open(ctx, db, sqlbundle.DialectPostgres, engine, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Store: mem, db: db}, nil
}

// DB exposes the underlying sql.DB for report queries.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect reports the SQL dialect of the store.
func (s *Store) Dialect() sqlbundle.Dialect { return sqlbundle.DialectPostgres }

// Reload rehydrates the working set from the database.
func (s *Store) Reload(ctx context.Context) error {
	return sqlstore.Reload(ctx, s.db, s.Store)
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
