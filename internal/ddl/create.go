// Package ddl defines a small, backend-agnostic model for SQL DDL and renders
// CREATE TABLE statements from it in a given Dialect.
//
// Defaults are emitted as raw SQL; the caller is responsible for their safety
// and dialect correctness.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect captures what differs between backends when rendering DDL.
type Dialect struct {
	Name string

	// TextType and IntType are the column types used by CensusTable.
	TextType string
	IntType  string

	// QuoteIdent quotes one identifier segment. Nil emits names verbatim.
	QuoteIdent func(string) string

	// CreatePrefix renders everything before the quoted table name. Nil
	// yields "CREATE TABLE ".
	CreatePrefix func(quotedFQN string) string
}

// Generic renders plain CREATE TABLE statements with unquoted identifiers.
var Generic = Dialect{Name: "generic", TextType: "TEXT", IntType: "BIGINT"}

// IfNotExists is a CreatePrefix for dialects supporting CREATE TABLE IF NOT
// EXISTS (SQLite, Postgres, MySQL).
func IfNotExists(string) string { return "CREATE TABLE IF NOT EXISTS " }

// QuoteFQN quotes each dot-separated segment of fqn with d.QuoteIdent.
func (d Dialect) QuoteFQN(fqn string) string {
	if d.QuoteIdent == nil {
		return fqn
	}
	parts := strings.Split(fqn, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}

func (d Dialect) quote(name string) string {
	if d.QuoteIdent == nil {
		return name
	}
	return d.QuoteIdent(name)
}

// BuildCreateTableSQL renders t with the Generic dialect.
func BuildCreateTableSQL(t TableDef) (string, error) {
	return Build(t, Generic)
}

// Build renders a CREATE TABLE statement for t in dialect d.
//
// Rules:
//
//   - t.FQN must be non-empty.
//
//   - Each column must have a non-empty Name and SQLType and is rendered as
//
//     <Name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
//   - Columns with PrimaryKey == true are collected into a trailing
//     PRIMARY KEY (...) clause.
//
// Names, types and defaults are trimmed before use.
func Build(t TableDef, d Dialect) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(d.quote(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, d.quote(name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	quoted := d.QuoteFQN(fqn)
	prefix := "CREATE TABLE "
	if d.CreatePrefix != nil {
		prefix = d.CreatePrefix(quoted)
	}
	return fmt.Sprintf("%s%s (\n  %s\n);", prefix, quoted, strings.Join(cols, ",\n  ")), nil
}
