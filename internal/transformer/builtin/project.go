package builtin

import (
	"fmt"

	"census/internal/projection"
	"census/pkg/records"
)

// Project writes Growth.Project(From) into To. From must already hold an
// int64 (see Coerce).
type Project struct {
	From   string
	To     string
	Growth projection.Growth
}

func (p Project) Apply(in []records.Record) ([]records.Record, error) {
	for _, r := range in {
		base, ok := r[p.From].(int64)
		if !ok {
			return nil, fmt.Errorf("project: line %d: %s is %T, want int64", r.Line(), p.From, r[p.From])
		}
		v, err := p.Growth.Project(base)
		if err != nil {
			return nil, fmt.Errorf("project: line %d: %w", r.Line(), err)
		}
		r[p.To] = v
	}
	return in, nil
}
