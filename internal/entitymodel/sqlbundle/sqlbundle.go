// Package sqlbundle exposes the entity-model DDL bundles and the small dialect
// differences the SQL-backed stores and report providers need to paper over.
package sqlbundle

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	sqldocs "farmcore/docs/schema/sql"
)

// SQLite returns the SQLite DDL for the entity model.
func SQLite() string {
	return sqldocs.SQLite
}

// Postgres returns the Postgres DDL for the entity model.
func Postgres() string {
	return sqldocs.Postgres
}

// SplitStatements splits a semicolon-terminated DDL script into executable statements.
// It drops blank lines and single-line comments that start with "--".
func SplitStatements(ddl string) []string {
	scanner := bufio.NewScanner(strings.NewReader(ddl))
	var stmts []string
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}

	if tail := strings.TrimSpace(current.String()); tail != "" {
		stmts = append(stmts, tail)
	}

	return stmts
}

// TimeLayout is the fixed-width text encoding used for SQLite timestamps so
// that lexical and chronological order agree.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Dialect names a supported SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect validates a dialect name.
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(name))); d {
	case DialectSQLite, DialectPostgres:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", name)
	}
}

// DDL returns the bundle for the dialect.
func (d Dialect) DDL() string {
	if d == DialectPostgres {
		return Postgres()
	}
	return SQLite()
}

// Rebind rewrites '?' placeholders into the dialect's native form. Question
// marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			b.WriteRune(r)
		case r == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EncodeTime converts t into a bind value. Zero times become an empty string
// on SQLite and NULL on Postgres.
func (d Dialect) EncodeTime(t time.Time) any {
	if d == DialectPostgres {
		if t.IsZero() {
			return nil
		}
		return t.UTC()
	}
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// EncodeTimePtr is EncodeTime for optional timestamps; nil binds NULL.
func (d Dialect) EncodeTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return d.EncodeTime(*t)
}

// EncodeBool converts b into a bind value.
func (d Dialect) EncodeBool(b bool) any {
	if d == DialectPostgres {
		return b
	}
	if b {
		return int64(1)
	}
	return int64(0)
}
