// Package csv reads a delimited file into a records.Table and writes one back
// out. Input is read whole: the pipeline needs every row before it can build
// the state lookup, and census exports are a few thousand lines.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"census/pkg/records"
)

// Options configures the CSV reader. The zero value reads comma-separated
// input and keeps every value exactly as written.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing white space from each field value.
	// Header cells are always trimmed.
	TrimSpace bool

	// HeaderMap renames source header cells before they become column keys.
	// Unmapped headers are kept verbatim; the classifier is case-sensitive.
	HeaderMap map[string]string
}

// Parser reads CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// ErrEmptyInput is returned when the input has no header line.
var ErrEmptyInput = errors.New("csv: input is empty")

// ReadTable consumes all of r. The first line is the header; each following
// line becomes a record keyed by header name with its 1-based source line
// stored under records.LineKey. Values stay strings; empty cells are "".
//
// Unlike a streaming loader there is no soft-fail: a malformed or ragged row
// aborts the read with the offending line number.
func (p *Parser) ReadTable(r io.Reader) (records.Table, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}

	h, err := cr.Read()
	if err == io.EOF {
		return records.Table{}, ErrEmptyInput
	}
	if err != nil {
		return records.Table{}, fmt.Errorf("read csv header: %w", err)
	}
	headers, err := normalizeHeaders(h, p.opt)
	if err != nil {
		return records.Table{}, err
	}

	tbl := records.Table{Columns: headers}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// *csv.ParseError already carries the line and, for width
			// mismatches, csv.ErrFieldCount.
			return records.Table{}, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		rec := make(records.Record, len(row)+1)
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[headers[i]] = val
		}
		rec[records.LineKey] = line
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl, nil
}

// ReadTable is shorthand for NewParser(opt).ReadTable(r).
func ReadTable(r io.Reader, opt Options) (records.Table, error) {
	return NewParser(opt).ReadTable(r)
}

// keyFor returns the column key for index idx, synthesizing a "col_N" name
// for blank header cells.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// normalizeHeaders trims each header cell, strips a UTF-8 BOM from the first
// one and applies HeaderMap. Two columns resolving to the same key would
// overwrite each other in a record, so that is an error.
func normalizeHeaders(h []string, opt Options) ([]string, error) {
	h = StripHeaderBOM(h)
	res := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if m, ok := opt.HeaderMap[c]; ok {
			c = m
		}
		res[i] = c
		res[i] = keyFor(i, res)
		if j, dup := seen[res[i]]; dup {
			return nil, fmt.Errorf("read csv header: column %q appears at positions %d and %d", res[i], j+1, i+1)
		}
		seen[res[i]] = i
	}
	return res, nil
}
