// Package normalize converts a classified input table into the canonical
// per-district schema.
//
// The clean shape is copied through unchanged. The raw statistical-office
// export is reshaped by a fixed chain of builtin transforms:
//
//	district-total rows → rename → join state names → normalize text
//	→ prune → coerce → dedup → project
//
// Order matters: the join relies on the renamed columns, and the dedup relies
// on normalized text and typed counts ("1200" and "1200.0" are one value).
package normalize

import (
	"fmt"
	"log"
	"strings"

	"census/internal/projection"
	"census/internal/schema"
	"census/internal/transformer"
	"census/internal/transformer/builtin"
	"census/pkg/records"
)

// JoinPolicy decides what happens to district rows whose state code has no
// state-level row.
type JoinPolicy string

const (
	// JoinFail aborts the run listing every unmapped code.
	JoinFail JoinPolicy = "fail"
	// JoinDrop reports each unmapped row as a warning and excludes it.
	JoinDrop JoinPolicy = "drop"
)

// ParseJoinPolicy maps a config value onto a JoinPolicy. Empty means JoinFail.
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch JoinPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", JoinFail:
		return JoinFail, nil
	case JoinDrop:
		return JoinDrop, nil
	}
	return "", fmt.Errorf("unknown join policy %q (want %q or %q)", s, JoinFail, JoinDrop)
}

// Result summarizes one normalization.
type Result struct {
	Shape        schema.Shape
	InputRows    int
	DistrictRows int // raw rows kept by the district-total filter
	LookupStates int // distinct (code, name) pairs in the state lookup
	Unmatched    []schema.JoinIntegrityWarning
	Duplicates   int // rows removed as exact duplicates
}

// Normalizer turns a classified table into the canonical table.
type Normalizer struct {
	Growth    projection.Growth
	Unmatched JoinPolicy

	// Warn receives each unmapped district row under JoinDrop. Defaults to a
	// log line.
	Warn func(schema.JoinIntegrityWarning)

	// Trace, when set, is called after each raw-path step with row counts.
	Trace transformer.Observer
}

// New returns a Normalizer with the default projection and JoinFail.
func New() *Normalizer {
	return &Normalizer{Growth: projection.Default, Unmatched: JoinFail}
}

// Normalize dispatches on shape. Unknown shapes are rejected without any
// processing.
func (n *Normalizer) Normalize(tbl records.Table, shape schema.Shape) (records.Table, Result, error) {
	res := Result{Shape: shape, InputRows: tbl.Len()}
	switch shape {
	case schema.Clean:
		out := n.clean(tbl)
		return out, res, nil
	case schema.Raw:
		return n.raw(tbl, res)
	default:
		return records.Table{}, res, schema.NewUnknownSchemaError(tbl.Columns)
	}
}

// clean is the identity path: a new table holding the same header and rows.
func (n *Normalizer) clean(tbl records.Table) records.Table {
	if tbl.Len() == 0 {
		log.Printf("normalize: warning: clean input has no rows")
	}
	return records.Table{
		Columns: append([]string(nil), tbl.Columns...),
		Rows:    append([]records.Record(nil), tbl.Rows...),
	}
}

func (n *Normalizer) raw(tbl records.Table, res Result) (records.Table, Result, error) {
	if missing := schema.Missing(tbl.Columns, schema.RawColumns); len(missing) > 0 {
		return records.Table{}, res, schema.NewUnknownSchemaError(tbl.Columns)
	}
	if err := n.Growth.Validate(); err != nil {
		return records.Table{}, res, err
	}
	policy := n.Unmatched
	if policy == "" {
		policy = JoinFail
	}

	lookup, err := stateLookup(tbl.Rows)
	if err != nil {
		return records.Table{}, res, err
	}
	res.LookupStates = len(lookup)

	var unmatched []schema.JoinIntegrityWarning
	onMiss := func(r records.Record) {
		unmatched = append(unmatched, schema.JoinIntegrityWarning{
			Line:     r.Line(),
			Code:     r.String(schema.RawState),
			District: r.String(schema.ColDistrict),
		})
	}

	head := transformer.Chain{
		transformer.Named{Name: "districts", Transformer: builtin.Where{Equals: map[string]string{
			schema.RawLevel: schema.LevelDistrict,
			schema.RawTRU:   schema.TRUTotal,
		}}},
		transformer.Named{Name: "rename", Transformer: builtin.Rename{Fields: map[string]string{
			schema.RawName:  schema.ColDistrict,
			schema.RawTotal: schema.ColPop2011,
		}}},
		transformer.Named{Name: "join", Transformer: builtin.LeftJoin{
			On:     schema.RawState,
			Lookup: lookup,
			Attach: []string{schema.ColState},
			OnMiss: onMiss,
		}},
	}

	rows, err := head.ApplyObserved(tbl.Rows, n.observe(&res))
	if err != nil {
		return records.Table{}, res, err
	}

	if len(unmatched) > 0 {
		res.Unmatched = unmatched
		if policy == JoinFail {
			return records.Table{}, res, &schema.JoinIntegrityError{Warnings: unmatched}
		}
		warn := n.Warn
		if warn == nil {
			warn = func(w schema.JoinIntegrityWarning) { log.Printf("normalize: warning: %s; row dropped", w) }
		}
		for _, w := range unmatched {
			warn(w)
		}
		rows = dropUnmatched(rows)
	}

	tail := transformer.Chain{
		transformer.Named{Name: "normalize", Transformer: builtin.Normalize{
			Fields: []string{schema.ColState, schema.ColDistrict},
			Title:  true,
		}},
		transformer.Named{Name: "prune", Transformer: builtin.Select{Fields: []string{
			schema.ColState, schema.ColDistrict, schema.ColPop2011,
		}}},
		transformer.Named{Name: "coerce", Transformer: builtin.Coerce{Ints: []string{schema.ColPop2011}}},
		transformer.Named{Name: "dedup", Transformer: builtin.DeDup{}},
		transformer.Named{Name: "project", Transformer: builtin.Project{
			From:   schema.ColPop2011,
			To:     schema.ColPop2025,
			Growth: n.Growth,
		}},
	}

	before := len(rows)
	rows, err = tail.ApplyObserved(rows, n.observe(&res))
	if err != nil {
		return records.Table{}, res, err
	}
	res.Duplicates = before - len(rows)

	return records.Table{
		Columns: append([]string(nil), schema.CanonicalColumns...),
		Rows:    rows,
	}, res, nil
}

// observe records the district-filter count and forwards to Trace.
func (n *Normalizer) observe(res *Result) transformer.Observer {
	return func(step string, in, out int) {
		if step == "districts" {
			res.DistrictRows = out
		}
		if n.Trace != nil {
			n.Trace(step, in, out)
		}
	}
}

// stateLookup builds the code → state-name table from the state-level total
// rows of the same raw export, one row per distinct (code, name).
func stateLookup(rows []records.Record) ([]records.Record, error) {
	chain := transformer.Chain{
		transformer.Named{Name: "states", Transformer: builtin.Where{Equals: map[string]string{
			schema.RawLevel: schema.LevelState,
			schema.RawTRU:   schema.TRUTotal,
		}}},
		transformer.Named{Name: "states.select", Transformer: builtin.Select{Fields: []string{schema.RawState, schema.RawName}}},
		transformer.Named{Name: "states.dedup", Transformer: builtin.DeDup{}},
		transformer.Named{Name: "states.rename", Transformer: builtin.Rename{Fields: map[string]string{
			schema.RawName: schema.ColState,
		}}},
	}
	out, err := chain.Apply(rows)
	if err != nil {
		return nil, fmt.Errorf("state lookup: %w", err)
	}
	return out, nil
}

func dropUnmatched(rows []records.Record) []records.Record {
	out := rows[:0]
	for _, r := range rows {
		if r[schema.ColState] != nil {
			out = append(out, r)
		}
	}
	return out
}
