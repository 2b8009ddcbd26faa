package builtin

import (
	"fmt"

	"census/pkg/records"
)

// LeftJoin attaches Attach fields from Lookup rows sharing the same On value.
//
// Every input row yields one output row per matching lookup row, in lookup
// order. A row without a match is kept with the attached fields set to nil and
// is passed to OnMiss, if set.
type LeftJoin struct {
	On     string
	Lookup []records.Record
	Attach []string
	OnMiss func(records.Record)
}

func (j LeftJoin) Apply(in []records.Record) ([]records.Record, error) {
	index := make(map[string][]records.Record, len(j.Lookup))
	for _, l := range j.Lookup {
		k, ok := joinKey(l[j.On])
		if !ok {
			return nil, fmt.Errorf("join: lookup line %d: key %q missing", l.Line(), j.On)
		}
		index[k] = append(index[k], l)
	}

	out := make([]records.Record, 0, len(in))
	for _, rec := range in {
		k, ok := joinKey(rec[j.On])
		if !ok {
			return nil, fmt.Errorf("join: line %d: key %q missing", rec.Line(), j.On)
		}
		matches := index[k]
		if len(matches) == 0 {
			for _, f := range j.Attach {
				rec[f] = nil
			}
			if j.OnMiss != nil {
				j.OnMiss(rec)
			}
			out = append(out, rec)
			continue
		}
		for i, m := range matches {
			dst := rec
			if i > 0 {
				dst = rec.Clone()
			}
			for _, f := range j.Attach {
				dst[f] = m[f]
			}
			out = append(out, dst)
		}
	}
	return out, nil
}

func joinKey(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	default:
		return fmt.Sprint(t), true
	}
}
