// Package records defines the in-memory row and table types shared by the
// parser, transformers, validator and storage sinks.
package records

// LineKey is the reserved key under which the CSV reader stores the 1-based
// source line of a row. It never appears in Table.Columns and is never
// written out; it only feeds diagnostics.
const LineKey = "\x00line"

// Record is a single row keyed by column name. Values read from CSV are
// strings; transforms may replace them with typed values (e.g. int64).
type Record map[string]any

// Line returns the source line recorded by the reader, or 0 if unknown.
func (r Record) Line() int {
	if n, ok := r[LineKey].(int); ok {
		return n
	}
	return 0
}

// String returns the value of key as a string, or "" when missing or not a
// string.
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of rows sharing a header.
type Table struct {
	Columns []string
	Rows    []Record
}

// Has reports whether the table header contains col.
func (t Table) Has(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }
