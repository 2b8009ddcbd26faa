package ddl

import "census/internal/schema"

// ColumnDef describes a single column of a table definition.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type in the backend's dialect (e.g. TEXT, BIGINT)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g. 0, CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name, optionally schema-qualified in dotted form
// ("schema.table"), and the ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// CensusTable returns the definition of the published district table for
// dialect d. No primary key is declared: the same (state, district) pair can
// legitimately appear twice in a source export and is only reported, not
// rejected.
func CensusTable(fqn string, d Dialect) TableDef {
	return TableDef{
		FQN: fqn,
		Columns: []ColumnDef{
			{Name: schema.ColState, SQLType: d.TextType},
			{Name: schema.ColDistrict, SQLType: d.TextType},
			{Name: schema.ColPop2011, SQLType: d.IntType},
			{Name: schema.ColPop2025, SQLType: d.IntType},
		},
	}
}
