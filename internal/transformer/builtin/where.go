// Package builtin contains the reusable transforms the census normalizer is
// assembled from.
package builtin

import "census/pkg/records"

// Where keeps records whose string value equals the expected value for every
// field in Equals. Comparison is exact; a missing field never matches.
type Where struct {
	Equals map[string]string
}

// Apply returns a new slice holding the matching records. The input slice is
// left untouched so callers can filter the same table more than once.
func (w Where) Apply(in []records.Record) ([]records.Record, error) {
	out := make([]records.Record, 0, len(in))
	for _, r := range in {
		if w.match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (w Where) match(r records.Record) bool {
	for field, want := range w.Equals {
		s, ok := r[field].(string)
		if !ok || s != want {
			return false
		}
	}
	return true
}
