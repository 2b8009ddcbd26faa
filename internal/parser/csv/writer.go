package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"census/pkg/records"
)

// WriteOptions configures WriteTable.
type WriteOptions struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune
}

// WriteTable writes columns as the header line followed by one line per row,
// fields in column order. A column missing from a row is written empty.
// Line endings are "\n" and quoting follows encoding/csv.
func WriteTable(w io.Writer, tbl records.Table, columns []string, opt WriteOptions) error {
	cw := csv.NewWriter(w)
	if opt.Comma != 0 {
		cw.Comma = opt.Comma
	}
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(columns))
	for i, r := range tbl.Rows {
		for j, col := range columns {
			row[j] = FormatValue(r[col])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatValue renders a record value the way it appears in output files.
// Integers are written without separators or exponent so counts round-trip.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
