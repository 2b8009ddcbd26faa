package normalize

import (
	"errors"
	"reflect"
	"testing"

	"census/internal/projection"
	"census/internal/schema"
	"census/pkg/records"
)

var rawColumns = []string{"State", "District", "Level", "Name", "TRU", "TOT_P"}

func raw(line int, state, level, name, tru, tot string) records.Record {
	return records.Record{
		"State":         state,
		"District":      "000",
		"Level":         level,
		"Name":          name,
		"TRU":           tru,
		"TOT_P":         tot,
		records.LineKey: line,
	}
}

// scenarioTable is the two-state, three-district export padded with
// subtotal rows that must not leak into the output.
func scenarioTable() records.Table {
	return records.Table{
		Columns: rawColumns,
		Rows: []records.Record{
			raw(2, "00", "INDIA", "India", "Total", "400000"),
			raw(3, "01", "STATE", "StateA", "Total", "300000"),
			raw(4, "01", "STATE", "StateA", "Rural", "200000"),
			raw(5, "01", "DISTRICT", "D1", "Total", "100000"),
			raw(6, "01", "DISTRICT", "D1", "Urban", "40000"),
			raw(7, "01", "DISTRICT", "D1", "Rural", "60000"),
			raw(8, "01", "SUBDIVISION", "D1 Block", "Total", "100000"),
			raw(9, "01", "DISTRICT", "D2", "Total", "200000"),
			raw(10, "02", "STATE", "StateB", "Total", "50000"),
			raw(11, "02", "DISTRICT", "D3", "Total", "50000"),
			raw(12, "02", "DISTRICT", "D3", "Rural", "50000"),
		},
	}
}

type row struct {
	State, District string
	P2011, P2025    int64
}

func flatten(t *testing.T, tbl records.Table) []row {
	t.Helper()
	out := make([]row, 0, tbl.Len())
	for _, r := range tbl.Rows {
		p11, ok1 := r[schema.ColPop2011].(int64)
		p25, ok2 := r[schema.ColPop2025].(int64)
		if !ok1 || !ok2 {
			t.Fatalf("population columns not int64: %#v", r)
		}
		out = append(out, row{r.String(schema.ColState), r.String(schema.ColDistrict), p11, p25})
	}
	return out
}

func TestNormalize_RawScenario(t *testing.T) {
	n := New()
	got, res, err := n.Normalize(scenarioTable(), schema.Raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !reflect.DeepEqual(got.Columns, schema.CanonicalColumns) {
		t.Fatalf("columns = %v", got.Columns)
	}
	want := []row{
		{"Statea", "D1", 100000, 118175},
		{"Statea", "D2", 200000, 236351},
		{"Stateb", "D3", 50000, 59088},
	}
	if g := flatten(t, got); !reflect.DeepEqual(g, want) {
		t.Fatalf("rows:\n got %+v\nwant %+v", g, want)
	}
	if res.InputRows != 11 || res.DistrictRows != 3 || res.LookupStates != 2 || res.Duplicates != 0 {
		t.Fatalf("result = %+v", res)
	}
	if want := int64(118175); got.Rows[0][schema.ColPop2025] != want {
		t.Fatalf("D1 2025 = %v, want %d", got.Rows[0][schema.ColPop2025], want)
	}
}

func TestNormalize_RawIsIdempotentAndLeavesInputIntact(t *testing.T) {
	tbl := scenarioTable()
	n := New()
	a, _, err := n.Normalize(tbl, schema.Raw)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, _, err := n.Normalize(tbl, schema.Raw)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("runs differ:\n%#v\n%#v", a, b)
	}
	if tbl.Rows[3]["Name"] != "D1" {
		t.Fatalf("input row mutated: %#v", tbl.Rows[3])
	}
}

func TestNormalize_RawDedupAfterNormalization(t *testing.T) {
	tbl := records.Table{Columns: rawColumns, Rows: []records.Record{
		raw(2, "01", "STATE", "STATE A", "Total", "1"),
		raw(3, "01", "DISTRICT", "KOLLAM", "Total", "1000"),
		raw(4, "01", "DISTRICT", "  kollam ", "Total", "1000"),
		raw(5, "01", "DISTRICT", "Kollam", "Total", "1001"),
	}}
	got, res, err := New().Normalize(tbl, schema.Raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Len() != 2 || res.Duplicates != 1 {
		t.Fatalf("len=%d duplicates=%d, want 2 and 1", got.Len(), res.Duplicates)
	}
	if got.Rows[0].String(schema.ColDistrict) != "Kollam" || got.Rows[0].String(schema.ColState) != "State A" {
		t.Fatalf("row0 = %#v", got.Rows[0])
	}
}

func TestNormalize_RawDedupComparesTypedCounts(t *testing.T) {
	tbl := records.Table{Columns: rawColumns, Rows: []records.Record{
		raw(2, "01", "STATE", "Alpha", "Total", "1"),
		raw(3, "01", "DISTRICT", "D1", "Total", "100000"),
		raw(4, "01", "DISTRICT", "D1", "Total", "100000.0"),
		raw(5, "01", "DISTRICT", "D1", "Total", " 100000 "),
	}}
	got, res, err := New().Normalize(tbl, schema.Raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []row{{"Alpha", "D1", 100000, 118175}}
	if g := flatten(t, got); !reflect.DeepEqual(g, want) {
		t.Fatalf("rows:\n got %+v\nwant %+v", g, want)
	}
	if res.Duplicates != 2 {
		t.Fatalf("duplicates = %d, want 2", res.Duplicates)
	}
	if got.Rows[0].Line() != 3 {
		t.Fatalf("kept line %d, want the first occurrence (3)", got.Rows[0].Line())
	}
}

func TestNormalize_RawDuplicateStateRowsCollapseInLookup(t *testing.T) {
	tbl := records.Table{Columns: rawColumns, Rows: []records.Record{
		raw(2, "01", "STATE", "StateA", "Total", "1"),
		raw(3, "01", "STATE", "StateA", "Total", "1"),
		raw(4, "01", "DISTRICT", "D1", "Total", "10"),
	}}
	got, res, err := New().Normalize(tbl, schema.Raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Len() != 1 || res.LookupStates != 1 {
		t.Fatalf("len=%d lookup=%d", got.Len(), res.LookupStates)
	}
}

func TestNormalize_UnmatchedCodeFailsByDefault(t *testing.T) {
	tbl := scenarioTable()
	tbl.Rows = append(tbl.Rows, raw(13, "07", "DISTRICT", "Orphan", "Total", "10"))

	_, res, err := New().Normalize(tbl, schema.Raw)
	var jie *schema.JoinIntegrityError
	if !errors.As(err, &jie) {
		t.Fatalf("err = %v, want *schema.JoinIntegrityError", err)
	}
	if !reflect.DeepEqual(jie.Codes(), []string{"07"}) {
		t.Fatalf("codes = %v", jie.Codes())
	}
	if len(res.Unmatched) != 1 || res.Unmatched[0].Line != 13 || res.Unmatched[0].District != "Orphan" {
		t.Fatalf("unmatched = %+v", res.Unmatched)
	}
}

func TestNormalize_UnmatchedCodeDroppedWithWarning(t *testing.T) {
	tbl := scenarioTable()
	tbl.Rows = append(tbl.Rows, raw(13, "07", "DISTRICT", "Orphan", "Total", "10"))

	var warned []schema.JoinIntegrityWarning
	n := New()
	n.Unmatched = JoinDrop
	n.Warn = func(w schema.JoinIntegrityWarning) { warned = append(warned, w) }

	got, res, err := n.Normalize(tbl, schema.Raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("len = %d, want 3", got.Len())
	}
	for _, r := range got.Rows {
		if r[schema.ColState] == nil {
			t.Fatalf("null state survived: %#v", r)
		}
	}
	if len(warned) != 1 || warned[0].Code != "07" || len(res.Unmatched) != 1 {
		t.Fatalf("warned = %+v, res.Unmatched = %+v", warned, res.Unmatched)
	}
}

func TestNormalize_NonNumericPopulationIsFatal(t *testing.T) {
	tbl := records.Table{Columns: rawColumns, Rows: []records.Record{
		raw(2, "01", "STATE", "StateA", "Total", "x"),
		raw(3, "01", "DISTRICT", "D1", "Total", "lots"),
	}}
	_, _, err := New().Normalize(tbl, schema.Raw)
	var nfe *schema.NumericFieldError
	if !errors.As(err, &nfe) {
		t.Fatalf("err = %v, want *schema.NumericFieldError", err)
	}
	if nfe.Line != 3 || nfe.Column != schema.ColPop2011 {
		t.Fatalf("nfe = %+v", nfe)
	}
}

func TestNormalize_CustomGrowth(t *testing.T) {
	tbl := scenarioTable()
	n := &Normalizer{Growth: projection.Growth{Rate: 0, BaseYear: 2011, TargetYear: 2025}}
	got, _, err := n.Normalize(tbl, schema.Raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	for _, r := range got.Rows {
		if r[schema.ColPop2011] != r[schema.ColPop2025] {
			t.Fatalf("zero growth changed population: %#v", r)
		}
	}
}

func TestNormalize_RawMissingColumns(t *testing.T) {
	tbl := records.Table{Columns: []string{"Level", "Name"}}
	_, _, err := New().Normalize(tbl, schema.Raw)
	var use *schema.UnknownSchemaError
	if !errors.As(err, &use) {
		t.Fatalf("err = %v, want *schema.UnknownSchemaError", err)
	}
}

func TestNormalize_CleanIsIdentity(t *testing.T) {
	tbl := records.Table{
		Columns: []string{"state", "district", "population_2011", "population_2025", "note"},
		Rows: []records.Record{
			{"state": "A", "district": "B", "population_2011": "1", "population_2025": "2", "note": "x"},
		},
	}
	got, res, err := New().Normalize(tbl, schema.Clean)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !reflect.DeepEqual(got, tbl) {
		t.Fatalf("clean path changed table:\n got %#v\nwant %#v", got, tbl)
	}
	if res.Shape != schema.Clean || res.InputRows != 1 {
		t.Fatalf("res = %+v", res)
	}
	got.Columns[0] = "mutated"
	if tbl.Columns[0] != "state" {
		t.Fatal("clean path aliases the input header")
	}
}

func TestNormalize_CleanEmpty(t *testing.T) {
	got, _, err := New().Normalize(records.Table{Columns: schema.CanonicalColumns}, schema.Clean)
	if err != nil || got.Len() != 0 {
		t.Fatalf("got=%v err=%v", got, err)
	}
}

func TestNormalize_UnknownShape(t *testing.T) {
	_, _, err := New().Normalize(records.Table{Columns: []string{"a"}}, schema.Unknown)
	var use *schema.UnknownSchemaError
	if !errors.As(err, &use) {
		t.Fatalf("err = %v, want *schema.UnknownSchemaError", err)
	}
}

func TestNormalize_TraceSeesEveryStep(t *testing.T) {
	var steps []string
	n := New()
	n.Trace = func(step string, in, out int) { steps = append(steps, step) }
	if _, _, err := n.Normalize(scenarioTable(), schema.Raw); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []string{"districts", "rename", "join", "normalize", "prune", "coerce", "dedup", "project"}
	if !reflect.DeepEqual(steps, want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
}

func TestParseJoinPolicy(t *testing.T) {
	for in, want := range map[string]JoinPolicy{"": JoinFail, "fail": JoinFail, " DROP ": JoinDrop} {
		got, err := ParseJoinPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseJoinPolicy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseJoinPolicy("keep"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
