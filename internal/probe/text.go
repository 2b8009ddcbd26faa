package probe

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

const rule = "================================================================================"

// WriteText renders r in the sectioned layout used on the terminal.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder

	b.WriteString(rule + "\n")
	if r.Path != "" {
		fmt.Fprintf(&b, "CENSUS FILE INSPECTION: %s\n", r.Path)
	} else {
		b.WriteString("CENSUS FILE INSPECTION\n")
	}
	b.WriteString(rule + "\n")

	fmt.Fprintf(&b, "\nshape: %s rows x %d columns (%s)\n",
		humanize.Comma(int64(r.Rows)), len(r.Columns), r.Shape)

	b.WriteString("\ncolumns:\n")
	for i, c := range r.Columns {
		typ := ""
		if i < len(r.Types) {
			typ = r.Types[i]
		}
		fmt.Fprintf(&b, "  %2d. %s (%s)\n", i+1, c, typ)
	}

	if len(r.Head) > 0 {
		fmt.Fprintf(&b, "\nfirst %d rows:\n", len(r.Head))
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(r.Columns, "\t"))
		for _, row := range r.Head {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	b.WriteString("\nrequired columns:\n")
	for _, m := range r.Matches {
		if len(m.Columns) > 0 {
			fmt.Fprintf(&b, "  ok   %q related columns: %s\n", m.Keyword, strings.Join(m.Columns, ", "))
		} else {
			fmt.Fprintf(&b, "  warn no %q column found\n", m.Keyword)
		}
	}

	b.WriteString("\ngeographic coverage:\n")
	if r.States != nil {
		fmt.Fprintf(&b, "  unique states/UTs: %s\n", humanize.Comma(int64(r.States.Distinct)))
		fmt.Fprintf(&b, "  sample states: %s\n", strings.Join(r.States.Sample, ", "))
	}
	if r.Districts != nil {
		fmt.Fprintf(&b, "  unique districts: %s\n", humanize.Comma(int64(r.Districts.Distinct)))
		fmt.Fprintf(&b, "  sample districts: %s\n", strings.Join(r.Districts.Sample, ", "))
	}

	if len(r.Population) > 0 {
		b.WriteString("\npopulation columns:\n")
		for _, p := range r.Population {
			fmt.Fprintf(&b, "  - %s\n", p.Column)
			if p.Numeric {
				fmt.Fprintf(&b, "    range: %s to %s\n", humanize.Comma(p.Min), humanize.Comma(p.Max))
			}
		}
	}

	b.WriteString("\n" + rule + "\nVERDICT\n" + rule + "\n")
	v := r.Verdict
	if v.OK() {
		b.WriteString("district-level population data\n")
		fmt.Fprintf(&b, "  state column:      %q\n", v.StateCol)
		fmt.Fprintf(&b, "  district column:   %q\n", v.DistrictCol)
		fmt.Fprintf(&b, "  population column: %q\n", v.PopulationCol)
	} else {
		b.WriteString("this file may not have all required columns\n")
		fmt.Fprintf(&b, "  has state data:      %s\n", yesNo(v.HasState))
		fmt.Fprintf(&b, "  has district data:   %s\n", yesNo(v.HasDistrict))
		fmt.Fprintf(&b, "  has population data: %s\n", yesNo(v.HasPopulation))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

// WriteJSON writes r as indented JSON followed by a newline.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
