package schema

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		columns []string
		want    Shape
	}{
		{
			name:    "clean exact",
			columns: []string{"state", "district", "population_2011", "population_2025"},
			want:    Clean,
		},
		{
			name:    "clean superset reordered",
			columns: []string{"population_2025", "extra", "district", "state", "population_2011"},
			want:    Clean,
		},
		{
			name:    "raw exact",
			columns: []string{"Level", "TRU", "Name", "TOT_P", "State"},
			want:    Raw,
		},
		{
			name:    "raw superset",
			columns: []string{"State", "District", "Level", "Name", "TRU", "No_HH", "TOT_P", "TOT_M"},
			want:    Raw,
		},
		{
			name: "both shapes prefers clean",
			columns: []string{
				"Level", "TRU", "Name", "TOT_P", "State",
				"state", "district", "population_2011", "population_2025",
			},
			want: Clean,
		},
		{
			name:    "clean missing projection",
			columns: []string{"state", "district", "population_2011"},
			want:    Unknown,
		},
		{
			name:    "raw missing TRU",
			columns: []string{"Level", "Name", "TOT_P", "State"},
			want:    Unknown,
		},
		{
			name:    "case sensitive",
			columns: []string{"level", "tru", "name", "tot_p", "state"},
			want:    Unknown,
		},
		{
			name:    "empty",
			columns: nil,
			want:    Unknown,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tc.columns); got != tc.want {
				t.Fatalf("Classify(%v) = %v, want %v", tc.columns, got, tc.want)
			}
		})
	}
}

func TestShapeString(t *testing.T) {
	for s, want := range map[Shape]string{Clean: "CLEAN", Raw: "RAW", Unknown: "UNKNOWN", Shape(42): "UNKNOWN"} {
		if got := s.String(); got != want {
			t.Errorf("Shape(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}

func TestMissing_sorted(t *testing.T) {
	got := Missing([]string{"TRU"}, RawColumns)
	want := []string{"Level", "Name", "State", "TOT_P"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Missing = %v, want %v", got, want)
	}
}

func TestUnknownSchemaError_names_both_shapes(t *testing.T) {
	err := error(NewUnknownSchemaError([]string{"a", "state"}))
	var use *UnknownSchemaError
	if !errors.As(err, &use) {
		t.Fatalf("errors.As failed for %T", err)
	}
	msg := err.Error()
	for _, want := range []string{"unknown file format", "population_2025", "TOT_P"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestJoinIntegrityError_codes_distinct(t *testing.T) {
	e := &JoinIntegrityError{Warnings: []JoinIntegrityWarning{
		{Line: 3, Code: "09", District: "A"},
		{Line: 4, Code: "07", District: "B"},
		{Line: 5, Code: "09", District: "C"},
	}}
	if got, want := e.Codes(), []string{"07", "09"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Codes = %v, want %v", got, want)
	}
	if !strings.Contains(e.Error(), "3 district rows") {
		t.Fatalf("Error() = %q", e.Error())
	}
}

func TestSchemaError_message(t *testing.T) {
	e := &SchemaError{Missing: []string{"population_2025"}}
	if got := e.Error(); !strings.Contains(got, "population_2025") {
		t.Fatalf("Error() = %q", got)
	}
	items := make([]string, 12)
	for i := range items {
		items[i] = "state@" + strings.Repeat("1", i+1)
	}
	e = &SchemaError{EmptyCells: items}
	if got := e.Error(); !strings.Contains(got, "(+2 more)") {
		t.Fatalf("Error() = %q", got)
	}
}
