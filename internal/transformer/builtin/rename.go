package builtin

import (
	"fmt"

	"census/pkg/records"
)

// Rename moves values from old keys to new keys. Each output record is a copy
// so the source rows stay intact.
type Rename struct {
	Fields map[string]string // old -> new
}

// Apply returns renamed copies. A record missing an old key is an error:
// renames only run on columns the classifier already proved present.
func (r Rename) Apply(in []records.Record) ([]records.Record, error) {
	out := make([]records.Record, 0, len(in))
	for _, rec := range in {
		c := rec.Clone()
		for from, to := range r.Fields {
			v, ok := c[from]
			if !ok {
				return nil, fmt.Errorf("rename: line %d: column %q not present", rec.Line(), from)
			}
			delete(c, from)
			c[to] = v
		}
		out = append(out, c)
	}
	return out, nil
}
