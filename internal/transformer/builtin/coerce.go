package builtin

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"census/internal/schema"
	"census/pkg/records"
)

// Coerce converts the Ints fields to int64 in place. Integers written as
// integral floats ("1200.0") are accepted because spreadsheet exports often
// emit them. A missing or unparseable value fails the batch with a
// *schema.NumericFieldError; values that are already int64 pass through.
type Coerce struct {
	Ints []string
}

func (c Coerce) Apply(in []records.Record) ([]records.Record, error) {
	for _, r := range in {
		for _, field := range c.Ints {
			switch v := r[field].(type) {
			case int64:
			case string:
				n, ok := ParseInt(v)
				if !ok {
					return nil, &schema.NumericFieldError{Column: field, Line: r.Line(), Value: v}
				}
				r[field] = n
			case nil:
				return nil, &schema.NumericFieldError{Column: field, Line: r.Line()}
			default:
				return nil, &schema.NumericFieldError{Column: field, Line: r.Line(), Value: fmt.Sprint(v)}
			}
		}
	}
	return in, nil
}

// ParseInt reads a whole number from s, allowing surrounding space and an
// integral float form.
func ParseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
