package sqlbundle

import (
	"strings"
	"testing"
	"time"
)

func TestSplitStatements(t *testing.T) {
	stmts := SplitStatements(SQLite())
	if len(stmts) == 0 {
		t.Fatal("expected sqlite DDL to produce statements")
	}
	for _, stmt := range stmts {
		if strings.HasPrefix(strings.TrimSpace(stmt), "--") {
			t.Fatalf("statement unexpectedly starts with comment: %q", stmt)
		}
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			t.Fatalf("statement missing semicolon terminator: %q", stmt)
		}
	}
}

func TestBundlesDeclareEveryTable(t *testing.T) {
	tables := []string{"pac", "tac", "flavor", "land", "plant", "org_api_key", "dyna_flow", "dyna_flow_task"}
	for _, d := range []Dialect{DialectSQLite, DialectPostgres} {
		ddl := d.DDL()
		for _, table := range tables {
			if !strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS "+table+" (") {
				t.Fatalf("%s bundle missing table %s", d, table)
			}
		}
	}
	if !strings.Contains(Postgres(), "TIMESTAMPTZ") || strings.Contains(SQLite(), "TIMESTAMPTZ") {
		t.Fatal("expected dialect specific timestamp types")
	}
}

func TestSplitStatementsKeepsUnterminatedTail(t *testing.T) {
	stmts := SplitStatements("-- header\nCREATE TABLE a (id TEXT);\n\nSELECT 1")
	if len(stmts) != 2 || stmts[1] != "SELECT 1" {
		t.Fatalf("unexpected statements: %q", stmts)
	}
}

func TestRebind(t *testing.T) {
	query := "SELECT * FROM plant WHERE land_id = ? AND some_text_val <> '?' AND flavor_id = ?"
	if got := DialectSQLite.Rebind(query); got != query {
		t.Fatalf("sqlite rebind changed query: %s", got)
	}
	want := "SELECT * FROM plant WHERE land_id = $1 AND some_text_val <> '?' AND flavor_id = $2"
	if got := DialectPostgres.Rebind(query); got != want {
		t.Fatalf("postgres rebind mismatch:\nwant %s\ngot  %s", want, got)
	}
}

func TestParseDialect(t *testing.T) {
	if d, err := ParseDialect(" Postgres "); err != nil || d != DialectPostgres {
		t.Fatalf("expected postgres, got %q %v", d, err)
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Fatal("expected unsupported dialect error")
	}
}

func TestEncoders(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 30, 0, 5, time.FixedZone("x", 3600))
	if got := DialectSQLite.EncodeTime(ts); got != "2024-03-01T07:30:00.000000005Z" {
		t.Fatalf("unexpected sqlite time encoding %v", got)
	}
	if got := DialectSQLite.EncodeTime(time.Time{}); got != "" {
		t.Fatalf("expected empty string for zero time, got %v", got)
	}
	if got := DialectPostgres.EncodeTime(time.Time{}); got != nil {
		t.Fatalf("expected nil for zero postgres time, got %v", got)
	}
	if got := DialectPostgres.EncodeTimePtr(nil); got != nil {
		t.Fatalf("expected nil pointer encoding, got %v", got)
	}
	if DialectSQLite.EncodeBool(true) != int64(1) || DialectPostgres.EncodeBool(true) != true {
		t.Fatal("unexpected bool encoding")
	}
}
