// Package transformer defines the batch transform contract used by the
// normalizer. A transform receives the whole table body and returns the rows
// for the next step; any error aborts the chain.
package transformer

import (
	"fmt"

	"census/pkg/records"
)

// Transformer rewrites a batch of records.
type Transformer interface {
	Apply([]records.Record) ([]records.Record, error)
}

// Named attaches a step name used in error messages and progress hooks.
type Named struct {
	Name string
	Transformer
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Observer, when set on ApplyObserved, is called after every step with the
// step name and the row counts entering and leaving it.
type Observer func(step string, in, out int)

// Apply runs each transformer in order, feeding each output to the next.
func (c Chain) Apply(in []records.Record) ([]records.Record, error) {
	return c.ApplyObserved(in, nil)
}

// ApplyObserved is Apply with a per-step callback.
func (c Chain) ApplyObserved(in []records.Record, obs Observer) ([]records.Record, error) {
	out := in
	for i, t := range c {
		name := stepName(i, t)
		before := len(out)
		next, err := t.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if obs != nil {
			obs(name, before, len(next))
		}
		out = next
	}
	return out, nil
}

func stepName(i int, t Transformer) string {
	if n, ok := t.(Named); ok && n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("step[%d]", i)
}
