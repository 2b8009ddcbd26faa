package builtin

import (
	"errors"
	"testing"

	"census/internal/schema"
	"census/pkg/records"
)

func TestCoerce(t *testing.T) {
	recs := []records.Record{
		{"population_2011": "100000", "name": "x"},
		{"population_2011": " 1200.0 "},
		{"population_2011": int64(7)},
	}
	out, err := Coerce{Ints: []string{"population_2011"}}.Apply(recs)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i, want := range []int64{100000, 1200, 7} {
		if got, ok := out[i]["population_2011"].(int64); !ok || got != want {
			t.Fatalf("row %d = %#v, want int64(%d)", i, out[i]["population_2011"], want)
		}
	}
	if out[0]["name"] != "x" {
		t.Fatalf("name changed: %#v", out[0]["name"])
	}
}

func TestCoerce_Errors(t *testing.T) {
	cases := []struct {
		name      string
		rec       records.Record
		wantLine  int
		wantValue string
	}{
		{"not numeric", records.Record{"TOT_P": "n/a", records.LineKey: 3}, 3, "n/a"},
		{"fraction", records.Record{"TOT_P": "12.5", records.LineKey: 4}, 4, "12.5"},
		{"nil", records.Record{"TOT_P": nil, records.LineKey: 5}, 5, ""},
		{"missing", records.Record{records.LineKey: 6}, 6, ""},
		{"float value", records.Record{"TOT_P": 1.5}, 0, "1.5"},
	}
	for _, tc := range cases {
		recs := []records.Record{{"TOT_P": "10", records.LineKey: 2}, tc.rec}
		_, err := Coerce{Ints: []string{"TOT_P"}}.Apply(recs)
		var nfe *schema.NumericFieldError
		if !errors.As(err, &nfe) {
			t.Errorf("%s: err = %v, want *schema.NumericFieldError", tc.name, err)
			continue
		}
		if nfe.Line != tc.wantLine || nfe.Value != tc.wantValue || nfe.Column != "TOT_P" {
			t.Errorf("%s: nfe = %+v", tc.name, nfe)
		}
	}
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"42", 42, true},
		{" 42 ", 42, true},
		{"-7", -7, true},
		{"1200.0", 1200, true},
		{"1e3", 1000, true},
		{"12.5", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"1,000", 0, false},
		{"9.3e18", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseInt(tc.in)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ParseInt(%q) = (%d,%v), want (%d,%v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}
