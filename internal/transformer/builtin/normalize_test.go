package builtin

import (
	"testing"

	"census/pkg/records"
)

func TestNormalize_TitleAndTrim(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "upper", in: "UTTAR PRADESH", want: "Uttar Pradesh"},
		{name: "lower", in: "north goa", want: "North Goa"},
		{name: "surrounding space", in: "  KERALA \t", want: "Kerala"},
		{name: "digits kept", in: "NORTH TWENTY FOUR 24", want: "North Twenty Four 24"},
		{name: "ampersand", in: "JAMMU & KASHMIR", want: "Jammu & Kashmir"},
		{name: "nbsp folded", in: "\u00a0LEH\u00a0LADAKH ", want: "Leh Ladakh"},
		{name: "inner capitals lowered", in: "StateA", want: "Statea"},
		{name: "initials", in: "y.s.r.", want: "Y.S.R."},
		{name: "apostrophe", in: "o'brien", want: "O'Brien"},
		{name: "hyphen", in: "north-east", want: "North-East"},
		{name: "leading digits", in: "24 paraganas", want: "24 Paraganas"},
		{name: "parenthesis", in: "mahbubnagar(part)", want: "Mahbubnagar(Part)"},
		{name: "letter after digit", in: "2nd ward", want: "2Nd Ward"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			recs := []records.Record{{"state": tc.in}}
			out, err := Normalize{Fields: []string{"state"}, Title: true}.Apply(recs)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if got := out[0]["state"]; got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalize_TrimOnlyAndNonStrings(t *testing.T) {
	recs := []records.Record{{"a": "  MiXeD  ", "b": nil, "c": int64(5)}}
	out, err := Normalize{Fields: []string{"a", "b", "c", "missing"}}.Apply(recs)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := out[0]["a"]; got != "MiXeD" {
		t.Fatalf("a = %q, want trimmed without case change", got)
	}
	if out[0]["b"] != nil {
		t.Fatalf("b = %v, want nil", out[0]["b"])
	}
	if out[0]["c"] != int64(5) {
		t.Fatalf("c = %v, want 5", out[0]["c"])
	}
	if _, ok := out[0]["missing"]; ok {
		t.Fatal("missing field was created")
	}
}

func TestTitleText(t *testing.T) {
	if got := TitleText("  WEST BENGAL "); got != "West Bengal" {
		t.Fatalf("TitleText = %q", got)
	}
}
