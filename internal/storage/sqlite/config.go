// Package sqlite implements a SQLite-backed storage.Repository.
package sqlite

import (
	"strings"

	"census/internal/ddl"
)

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:census.db?cache=shared"
	//   "census.db" (interpreted by the driver)
	DSN string

	// Table is the destination table. SQLite has no schemas in the Postgres
	// sense; attached-database names such as "main.district_population" are
	// passed through.
	Table string
}

// Dialect renders census DDL for SQLite.
var Dialect = ddl.Dialect{
	Name:         "sqlite",
	TextType:     "TEXT",
	IntType:      "INTEGER",
	QuoteIdent:   quoteIdent,
	CreatePrefix: ddl.IfNotExists,
}

func quoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
