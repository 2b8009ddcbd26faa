package builtin

import (
	"fmt"

	"census/pkg/records"
)

// Select projects each record onto Fields. The source line number is carried
// along for diagnostics.
type Select struct {
	Fields []string
}

func (s Select) Apply(in []records.Record) ([]records.Record, error) {
	out := make([]records.Record, 0, len(in))
	for _, rec := range in {
		p := make(records.Record, len(s.Fields)+1)
		for _, f := range s.Fields {
			v, ok := rec[f]
			if !ok {
				return nil, fmt.Errorf("select: line %d: column %q not present", rec.Line(), f)
			}
			p[f] = v
		}
		if line, ok := rec[records.LineKey]; ok {
			p[records.LineKey] = line
		}
		out = append(out, p)
	}
	return out, nil
}
