// Package schema holds the column contracts of the census pipeline: the two
// recognized input shapes, the canonical output schema, and the typed errors
// raised when a table does not satisfy them.
package schema

import "sort"

// Shape identifies which known layout an input table matches.
type Shape int

const (
	// Unknown means neither known column set is present.
	Unknown Shape = iota
	// Clean is the already-normalized per-district table.
	Clean
	// Raw is the statistical-office export with Level/TRU subtotal rows.
	Raw
)

func (s Shape) String() string {
	switch s {
	case Clean:
		return "CLEAN"
	case Raw:
		return "RAW"
	default:
		return "UNKNOWN"
	}
}

// Canonical output columns, in output order.
const (
	ColState    = "state"
	ColDistrict = "district"
	ColPop2011  = "population_2011"
	ColPop2025  = "population_2025"
)

// Raw export columns.
const (
	RawLevel = "Level"
	RawTRU   = "TRU"
	RawName  = "Name"
	RawTotal = "TOT_P"
	RawState = "State"
)

// Raw discriminator values.
const (
	LevelDistrict = "DISTRICT"
	LevelState    = "STATE"
	TRUTotal      = "Total"
)

// CanonicalColumns is the header written by the pipeline. Callers must not
// modify it.
var CanonicalColumns = []string{ColState, ColDistrict, ColPop2011, ColPop2025}

// RawColumns is the minimum column set of the raw export.
var RawColumns = []string{RawLevel, RawTRU, RawName, RawTotal, RawState}

// Classify decides which shape the column set matches. The clean shape is
// checked first, so a table carrying both column sets is treated as clean.
func Classify(columns []string) Shape {
	if len(Missing(columns, CanonicalColumns)) == 0 {
		return Clean
	}
	if len(Missing(columns, RawColumns)) == 0 {
		return Raw
	}
	return Unknown
}

// Missing returns the members of required absent from columns, sorted.
// Column names are matched exactly (case-sensitive).
func Missing(columns, required []string) []string {
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}
	var out []string
	for _, r := range required {
		if _, ok := have[r]; !ok {
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}
