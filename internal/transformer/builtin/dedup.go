package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"census/pkg/records"
)

// DeDup drops exact duplicate records, keeping the first occurrence and the
// input order. Two records are equal when they hold the same fields with the
// same typed values; the source line is ignored. Run it after Normalize,
// Select and Coerce so that equal rows really look equal.
type DeDup struct{}

func (DeDup) Apply(in []records.Record) ([]records.Record, error) {
	if len(in) == 0 {
		return in, nil
	}
	seen := make(map[xxh3.Uint128]struct{}, len(in))
	out := in[:0:0]
	var b strings.Builder
	for _, r := range in {
		key := rowKey(&b, r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

// rowKey hashes every field of r except the line number, in name order.
// Values carry a type tag so the string "1" and the integer 1 never collide.
func rowKey(b *strings.Builder, r records.Record) xxh3.Uint128 {
	fields := make([]string, 0, len(r))
	for k := range r {
		if k != records.LineKey {
			fields = append(fields, k)
		}
	}
	sort.Strings(fields)

	b.Reset()
	for _, k := range fields {
		b.WriteString(k)
		b.WriteByte('=')
		switch t := r[k].(type) {
		case nil:
			b.WriteByte('\x00')
		case string:
			b.WriteByte('s')
			b.WriteString(t)
		default:
			fmt.Fprintf(b, "%T:%v", t, t)
		}
		b.WriteByte('\x1f')
	}
	return xxh3.HashString128(b.String())
}
