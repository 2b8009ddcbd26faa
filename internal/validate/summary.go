package validate

import (
	"census/internal/schema"
	"census/pkg/records"
)

// Summary holds the diagnostic counters reported after validation.
type Summary struct {
	Districts int
	States    int
	Pop2011   int64
	Pop2025   int64

	// DuplicateKeys lists "state/district" pairs that occur more than once.
	// Exact duplicate rows are removed earlier; a repeat here means the same
	// district appears with different counts.
	DuplicateKeys []string
}

// Summarize computes counters over a table that passed Canonical.
func Summarize(tbl records.Table) Summary {
	var s Summary
	states := make(map[string]struct{})
	seen := make(map[[2]string]int)
	for _, r := range tbl.Rows {
		st := r.String(schema.ColState)
		d := r.String(schema.ColDistrict)
		s.Districts++
		states[st] = struct{}{}
		if n, ok := r[schema.ColPop2011].(int64); ok {
			s.Pop2011 += n
		}
		if n, ok := r[schema.ColPop2025].(int64); ok {
			s.Pop2025 += n
		}
		k := [2]string{st, d}
		seen[k]++
		if seen[k] == 2 {
			s.DuplicateKeys = append(s.DuplicateKeys, st+"/"+d)
		}
	}
	s.States = len(states)
	return s
}
