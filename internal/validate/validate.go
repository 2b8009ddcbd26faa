// Package validate checks a normalized table against the canonical census
// schema and computes the run's summary counters.
package validate

import (
	"fmt"

	"census/internal/schema"
	"census/internal/transformer/builtin"
	"census/pkg/records"
)

// Canonical asserts the canonical schema, in order:
//
//  1. all four canonical columns are present (*schema.SchemaError naming the
//     missing ones);
//  2. both population columns hold whole numbers, converted to int64 in place
//     (*schema.NumericFieldError);
//  3. state and district are non-empty on every row (*schema.SchemaError
//     listing the offending cells).
//
// The returned table has exactly the canonical columns, in canonical order.
func Canonical(tbl records.Table) (records.Table, error) {
	if missing := schema.Missing(tbl.Columns, schema.CanonicalColumns); len(missing) > 0 {
		return records.Table{}, &schema.SchemaError{Missing: missing}
	}

	coerce := builtin.Coerce{Ints: []string{schema.ColPop2011, schema.ColPop2025}}
	rows, err := coerce.Apply(tbl.Rows)
	if err != nil {
		return records.Table{}, err
	}

	var empty []string
	for i, r := range rows {
		for _, col := range []string{schema.ColState, schema.ColDistrict} {
			if s, ok := r[col].(string); !ok || s == "" {
				empty = append(empty, fmt.Sprintf("%s@%d", col, lineOf(r, i)))
			}
		}
	}
	if len(empty) > 0 {
		return records.Table{}, &schema.SchemaError{EmptyCells: empty}
	}

	return records.Table{
		Columns: append([]string(nil), schema.CanonicalColumns...),
		Rows:    rows,
	}, nil
}

// lineOf prefers the source line; rows without one are numbered as they
// would appear in the output file (header on line 1).
func lineOf(r records.Record, i int) int {
	if n := r.Line(); n > 0 {
		return n
	}
	return i + 2
}
