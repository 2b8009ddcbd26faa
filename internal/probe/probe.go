// Package probe inspects a candidate census input file and reports whether it
// looks like district-level population data: its size, header, inferred
// column types, keyword-matched columns, geographic coverage and population
// ranges, ending in a verdict with the recommended columns.
package probe

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"census/internal/parser/csv"
	"census/internal/schema"
	"census/pkg/records"
)

// Keywords are matched case-insensitively as substrings of column names.
var Keywords = []string{"state", "district", "population", "total"}

// populationKeywords select the columns whose ranges are reported. "tot_p" is
// the census abbreviation used by the raw export.
var populationKeywords = []string{"population", "total", "persons", "tot_p"}

const (
	sampleValues     = 5
	maxPopulationCol = 5
)

// Match lists the columns whose names contain Keyword.
type Match struct {
	Keyword string   `json:"keyword"`
	Columns []string `json:"columns"`
}

// Coverage describes one geographic column.
type Coverage struct {
	Column   string   `json:"column"`
	Distinct int      `json:"distinct"`
	Sample   []string `json:"sample"`
}

// Range is the observed span of a population-like column. Min and Max are
// only meaningful when Numeric is true.
type Range struct {
	Column  string `json:"column"`
	Numeric bool   `json:"numeric"`
	Min     int64  `json:"min,omitempty"`
	Max     int64  `json:"max,omitempty"`
}

// Verdict summarizes whether the file carries what the pipeline needs.
type Verdict struct {
	HasState      bool   `json:"has_state"`
	HasDistrict   bool   `json:"has_district"`
	HasPopulation bool   `json:"has_population"`
	StateCol      string `json:"state_column,omitempty"`
	DistrictCol   string `json:"district_column,omitempty"`
	PopulationCol string `json:"population_column,omitempty"`
}

// OK reports whether all three kinds of column were found.
func (v Verdict) OK() bool { return v.HasState && v.HasDistrict && v.HasPopulation }

// Report is the result of Inspect.
type Report struct {
	Path       string     `json:"path,omitempty"`
	Rows       int        `json:"rows"`
	Columns    []string   `json:"columns"`
	Types      []string   `json:"types"`
	Shape      string     `json:"shape"`
	Matches    []Match    `json:"matches"`
	States     *Coverage  `json:"states,omitempty"`
	Districts  *Coverage  `json:"districts,omitempty"`
	Population []Range    `json:"population,omitempty"`
	Head       [][]string `json:"head,omitempty"`
	Verdict    Verdict    `json:"verdict"`
}

// HeadRows is how many leading rows Inspect keeps for display.
var HeadRows = 10

// Inspect analyses tbl. Cells are read through their CSV text form, so typed
// tables work as well as freshly parsed ones.
func Inspect(tbl records.Table) Report {
	r := Report{
		Rows:    tbl.Len(),
		Columns: append([]string(nil), tbl.Columns...),
		Shape:   schema.Classify(tbl.Columns).String(),
	}

	for _, c := range tbl.Columns {
		r.Types = append(r.Types, inferType(column(tbl, c)))
	}

	for _, kw := range Keywords {
		r.Matches = append(r.Matches, Match{Keyword: kw, Columns: matching(tbl.Columns, kw)})
	}

	stateCols := matching(tbl.Columns, "state")
	districtCols := matching(tbl.Columns, "district")
	popCols := matching(tbl.Columns, populationKeywords...)

	if len(stateCols) > 0 {
		r.States = coverage(tbl, stateCols[0])
		r.Verdict.HasState, r.Verdict.StateCol = true, stateCols[0]
	}
	if len(districtCols) > 0 {
		r.Districts = coverage(tbl, districtCols[0])
		r.Verdict.HasDistrict, r.Verdict.DistrictCol = true, districtCols[0]
	}
	if len(popCols) > 0 {
		r.Verdict.HasPopulation, r.Verdict.PopulationCol = true, popCols[0]
		if len(popCols) > maxPopulationCol {
			popCols = popCols[:maxPopulationCol]
		}
		for _, c := range popCols {
			r.Population = append(r.Population, numericRange(c, column(tbl, c)))
		}
	}

	n := HeadRows
	if n > tbl.Len() {
		n = tbl.Len()
	}
	for _, row := range tbl.Rows[:n] {
		cells := make([]string, len(tbl.Columns))
		for i, c := range tbl.Columns {
			cells[i] = csv.FormatValue(row[c])
		}
		r.Head = append(r.Head, cells)
	}
	return r
}

// matching returns the columns containing any of the keywords, in header
// order.
func matching(columns []string, keywords ...string) []string {
	var out []string
	for _, c := range columns {
		lc := strings.ToLower(c)
		for _, kw := range keywords {
			if strings.Contains(lc, kw) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func column(tbl records.Table, name string) []string {
	out := make([]string, len(tbl.Rows))
	for i, r := range tbl.Rows {
		out[i] = strings.TrimSpace(csv.FormatValue(r[name]))
	}
	return out
}

// coverage counts distinct non-empty values and keeps the first few in
// order of appearance.
func coverage(tbl records.Table, col string) *Coverage {
	cv := &Coverage{Column: col, Sample: []string{}}
	seen := make(map[string]struct{})
	for _, v := range column(tbl, col) {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		if len(cv.Sample) < sampleValues {
			cv.Sample = append(cv.Sample, v)
		}
	}
	cv.Distinct = len(seen)
	return cv
}

// numericRange reports min and max when every non-empty value is an integer.
func numericRange(col string, vals []string) Range {
	rg := Range{Column: col}
	first := true
	for _, v := range vals {
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Range{Column: col}
		}
		if first || n < rg.Min {
			rg.Min = n
		}
		if first || n > rg.Max {
			rg.Max = n
		}
		first = false
	}
	rg.Numeric = !first
	return rg
}

// inferType classifies a column as integer, real or text. Empty columns are
// text.
func inferType(vals []string) string {
	kind := ""
	for _, v := range vals {
		if v == "" {
			continue
		}
		switch {
		case isInt(v):
			if kind == "" {
				kind = "integer"
			}
		case isFloat(v):
			kind = "real"
		default:
			return "text"
		}
	}
	if kind == "" {
		return "text"
	}
	return kind
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// DecodeDelimiter converts a user-supplied string into a single rune
// delimiter, defaulting to ','. "\t" and "tab" select a tab.
func DecodeDelimiter(s string) rune {
	switch s {
	case "":
		return ','
	case `\t`, "tab":
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// SortByVerdict orders reports with passing verdicts first, then by path.
func SortByVerdict(rs []Report) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Verdict.OK() != rs[j].Verdict.OK() {
			return rs[i].Verdict.OK()
		}
		return rs[i].Path < rs[j].Path
	})
}
