package schema

import (
	"fmt"
	"sort"
	"strings"
)

// MissingInputError reports that the configured input file does not exist.
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

func (e *MissingInputError) Unwrap() error { return e.Err }

// UnknownSchemaError reports a table matching neither known shape.
type UnknownSchemaError struct {
	Columns      []string
	MissingRaw   []string
	MissingClean []string
}

// NewUnknownSchemaError builds the error for the observed header.
func NewUnknownSchemaError(columns []string) *UnknownSchemaError {
	return &UnknownSchemaError{
		Columns:      append([]string(nil), columns...),
		MissingClean: Missing(columns, CanonicalColumns),
		MissingRaw:   Missing(columns, RawColumns),
	}
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf(
		"unknown file format: columns %v match neither shape (clean missing %v, raw missing %v)",
		e.Columns, e.MissingClean, e.MissingRaw,
	)
}

// SchemaError reports a canonical table that fails validation, either because
// columns are missing or because required cells are empty.
type SchemaError struct {
	Missing []string
	// EmptyCells lists "column@line" entries for empty required values.
	EmptyCells []string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns after processing: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.EmptyCells) > 0 {
		parts = append(parts, fmt.Sprintf("empty required values: %s", abbreviate(e.EmptyCells, 10)))
	}
	if len(parts) == 0 {
		return "schema validation failed"
	}
	return strings.Join(parts, "; ")
}

// NumericFieldError reports a value that cannot be read as an integer.
type NumericFieldError struct {
	Column string
	Line   int
	Value  string
}

func (e *NumericFieldError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: column %q: %q is not numeric", e.Line, e.Column, e.Value)
	}
	return fmt.Sprintf("column %q: %q is not numeric", e.Column, e.Value)
}

// JoinIntegrityWarning describes a district row whose state code has no
// matching state-level row.
type JoinIntegrityWarning struct {
	Line     int
	Code     string
	District string
}

func (w JoinIntegrityWarning) String() string {
	return fmt.Sprintf("line %d: district %q has unmapped state code %q", w.Line, w.District, w.Code)
}

// JoinIntegrityError aggregates unmapped state codes when the join policy
// does not allow dropping them.
type JoinIntegrityError struct {
	Warnings []JoinIntegrityWarning
}

// Codes returns the distinct unmapped codes, sorted.
func (e *JoinIntegrityError) Codes() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, w := range e.Warnings {
		if _, ok := seen[w.Code]; ok {
			continue
		}
		seen[w.Code] = struct{}{}
		out = append(out, w.Code)
	}
	sort.Strings(out)
	return out
}

func (e *JoinIntegrityError) Error() string {
	return fmt.Sprintf("%d district rows reference unmapped state codes: %s",
		len(e.Warnings), abbreviate(e.Codes(), 10))
}

// abbreviate joins at most n items and notes how many were left out.
func abbreviate(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(items[:n], ", "), len(items)-n)
}
