// Package sqlstore holds the machinery shared by the SQL-backed stores: DDL
// application, hydration of the in-memory working set from normalised tables,
// and mirroring of committed changes back into those tables.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"farmcore/internal/entitymodel/sqlbundle"
	"farmcore/internal/infra/persistence/memory"
	"farmcore/pkg/domain"
)

// Execer is the subset of *sql.DB and *sql.Tx used to run statements.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Queryer is the subset of *sql.DB and *sql.Tx used to read rows.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ApplyDDL executes every statement of the dialect's DDL bundle.
func ApplyDDL(ctx context.Context, exec Execer, dialect sqlbundle.Dialect) error {
	for _, stmt := range sqlbundle.SplitStatements(dialect.DDL()) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := exec.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

// Load reads every normalised table into a memory snapshot.
func Load(ctx context.Context, q Queryer) (memory.Snapshot, error) {
	var snapshot memory.Snapshot
	for _, t := range tables {
		if err := loadTable(ctx, q, t, &snapshot); err != nil {
			return memory.Snapshot{}, err
		}
	}
	return snapshot, nil
}

func loadTable(ctx context.Context, q Queryer, t table, snap *memory.Snapshot) error {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.columns, ", "), t.name)
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("select %s: %w", t.name, err)
	}
	defer func() { _ = rows.Close() }()
	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("columns %s: %w", t.name, err)
	}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan %s: %w", t.name, err)
		}
		if err := t.load(newRowReader(cols, raw), snap); err != nil {
			return fmt.Errorf("decode %s: %w", t.name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", t.name, err)
	}
	return nil
}

// upsertSQL renders the insert-or-update statement for t with '?' placeholders.
func upsertSQL(t table) string {
	placeholders := make([]string, len(t.columns))
	var assignments []string
	for i, col := range t.columns {
		placeholders[i] = "?"
		if col == "id" {
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = excluded.%s", col, col))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		t.name, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "), strings.Join(assignments, ", "))
}

// ApplyChanges writes each change to its table in order.
func ApplyChanges(ctx context.Context, exec Execer, dialect sqlbundle.Dialect, changes []domain.Change) error {
	for _, change := range changes {
		t, ok := tablesByEntity[change.Entity]
		if !ok {
			return fmt.Errorf("no table mapped for entity %q", change.Entity)
		}
		switch change.Action {
		case domain.ActionCreate, domain.ActionUpdate:
			args, err := t.values(dialect, change.After)
			if err != nil {
				return err
			}
			if _, err := exec.ExecContext(ctx, dialect.Rebind(upsertSQL(t)), args...); err != nil {
				return fmt.Errorf("upsert %s: %w", t.name, err)
			}
		case domain.ActionDelete:
			id, err := recordID(change.Before)
			if err != nil {
				return err
			}
			query := dialect.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name))
			if _, err := exec.ExecContext(ctx, query, id); err != nil {
				return fmt.Errorf("delete %s: %w", t.name, err)
			}
		default:
			return fmt.Errorf("unsupported change action %q", change.Action)
		}
	}
	return nil
}

func recordID(rec any) (string, error) {
	switch v := rec.(type) {
	case domain.Pac:
		return v.ID, nil
	case domain.Tac:
		return v.ID, nil
	case domain.Flavor:
		return v.ID, nil
	case domain.Land:
		return v.ID, nil
	case domain.Plant:
		return v.ID, nil
	case domain.OrgAPIKey:
		return v.ID, nil
	case domain.DynaFlow:
		return v.ID, nil
	case domain.DynaFlowTask:
		return v.ID, nil
	default:
		return "", fmt.Errorf("unexpected record type %T", rec)
	}
}

// Mirror returns a commit hook that writes changes to db inside one SQL
// transaction. A failed write rolls back and aborts the in-memory commit.
func Mirror(db *sql.DB, dialect sqlbundle.Dialect) domain.CommitHook {
	return func(ctx context.Context, changes []domain.Change) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		committed := false
		defer func() {
			if !committed {
				_ = tx.Rollback()
			}
		}()
		if err := ApplyChanges(ctx, tx, dialect, changes); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		committed = true
		return nil
	}
}

// Open prepares db for use as a store: it applies the DDL, hydrates a memory
// store from the tables and installs the mirroring commit hook.
func Open(ctx context.Context, db *sql.DB, dialect sqlbundle.Dialect, engine *domain.RulesEngine, opts ...memory.Option) (*memory.Store, error) {
	if err := ApplyDDL(ctx, db, dialect); err != nil {
		return nil, err
	}
	snapshot, err := Load(ctx, db)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore(engine, opts...)
	mem.ImportState(snapshot)
	mem.SetCommitHook(Mirror(db, dialect))
	return mem, nil
}

// Reload rehydrates mem from the tables, picking up rows other processes
// committed since the store was opened.
func Reload(ctx context.Context, db *sql.DB, mem *memory.Store) error {
	return mem.Resync(ctx, func(ctx context.Context) (memory.Snapshot, error) {
		return Load(ctx, db)
	})
}
