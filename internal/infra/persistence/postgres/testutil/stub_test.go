package testutil

import (
	"context"
	"database/sql/driver"
	"testing"
)

func TestStubDBStoresAndQueriesRows(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()

	if err := conn.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	upsert := "INSERT INTO land (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = excluded.name"
	for _, name := range []string{"North", "South"} {
		if _, err := conn.ExecContext(ctx, upsert, []driver.NamedValue{{Value: "land-1"}, {Value: name}}); err != nil {
			t.Fatalf("ExecContext upsert: %v", err)
		}
	}
	rows := conn.Rows("land")
	if len(rows) != 1 || rows[0]["name"] != "South" {
		t.Fatalf("expected single upserted row, got %v", rows)
	}

	res, err := conn.QueryContext(ctx, "SELECT id, name FROM land", nil)
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	dest := make([]driver.Value, 2)
	if err := res.Next(dest); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if dest[0] != "land-1" || dest[1] != "South" {
		t.Fatalf("unexpected row values: %v", dest)
	}

	if _, err := conn.ExecContext(ctx, "DELETE FROM land WHERE id = $1", []driver.NamedValue{{Value: "land-1"}}); err != nil {
		t.Fatalf("ExecContext delete: %v", err)
	}
	if len(conn.Rows("land")) != 0 {
		t.Fatalf("expected row deleted")
	}
}

func TestStubRejectsUnboundPlaceholders(t *testing.T) {
	_, conn := NewStubDB()
	_, err := conn.ExecContext(context.Background(), "INSERT INTO pac (id) VALUES (?)", []driver.NamedValue{{Value: "x"}})
	if err == nil {
		t.Fatalf("expected error for '?' placeholder")
	}
}
