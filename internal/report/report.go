// Package report prints the human-readable run summary: counters, duplicate
// warnings, a sample of the output rows and the size of the written file.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"census/internal/parser/csv"
	"census/internal/validate"
	"census/pkg/records"
)

// Run carries everything Print needs about one pipeline run.
type Run struct {
	Input   string
	Output  string
	Shape   string
	Summary validate.Summary

	// Sample holds the rows to show; Print prints at most SampleRows of them.
	Sample     records.Table
	SampleRows int

	// Bytes is the size of the written output; zero omits the line.
	Bytes int64
}

// printer formats integers with English thousands separators.
var printer = message.NewPrinter(language.English)

// Print writes the summary for r to w.
func Print(w io.Writer, r Run) error {
	s := r.Summary
	var b strings.Builder

	fmt.Fprintf(&b, "input:  %s (%s)\n", r.Input, r.Shape)
	if r.Output != "" {
		if r.Bytes > 0 {
			fmt.Fprintf(&b, "output: %s (%s)\n", r.Output, humanize.Bytes(uint64(r.Bytes)))
		} else {
			fmt.Fprintf(&b, "output: %s\n", r.Output)
		}
	}
	b.WriteString(printer.Sprintf("districts:       %d\n", s.Districts))
	b.WriteString(printer.Sprintf("states:          %d\n", s.States))
	b.WriteString(printer.Sprintf("population_2011: %d\n", s.Pop2011))
	b.WriteString(printer.Sprintf("population_2025: %d\n", s.Pop2025))
	for _, k := range s.DuplicateKeys {
		fmt.Fprintf(&b, "warning: duplicate state/district %s\n", k)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	n := r.SampleRows
	if n <= 0 || r.Sample.Len() == 0 {
		return nil
	}
	if n > r.Sample.Len() {
		n = r.Sample.Len()
	}
	if _, err := fmt.Fprintf(w, "\nfirst %d rows:\n", n); err != nil {
		return err
	}
	return writeSample(w, r.Sample, n)
}

// writeSample renders the first n rows of tbl as aligned columns.
func writeSample(w io.Writer, tbl records.Table, n int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tbl.Columns, "\t"))
	cells := make([]string, len(tbl.Columns))
	for _, row := range tbl.Rows[:n] {
		for i, c := range tbl.Columns {
			cells[i] = csv.FormatValue(row[c])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
