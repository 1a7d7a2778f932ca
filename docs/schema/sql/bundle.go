// Package sqldocs embeds the farmcore DDL files kept next to the schema docs.
package sqldocs

import _ "embed"

var (
	// SQLite creates every farmcore table on SQLite.
	//
	//go:embed sqlite.sql
	SQLite string

	// Postgres creates every farmcore table on Postgres.
	//
	//go:embed postgres.sql
	Postgres string
)
