package projection

import (
	"math"
	"testing"
)

func TestDefaultProject(t *testing.T) {
	t.Parallel()

	cases := []struct {
		base int64
		want int64
	}{
		// 1.012^14 = 1.18175425...
		{base: 1_000_000, want: 1_181_754},
		{base: 100_000, want: 118_175},
		{base: 200_000, want: 236_351},
		{base: 50_000, want: 59_088},
		{base: 0, want: 0},
		{base: 1, want: 1},
	}
	for _, tc := range cases {
		got, err := Default.Project(tc.base)
		if err != nil || got != tc.want {
			t.Errorf("Default.Project(%d) = %d, %v; want %d", tc.base, got, err, tc.want)
		}
	}
}

func TestYearsAndFactor(t *testing.T) {
	if got := Default.Years(); got != 14 {
		t.Fatalf("Years = %d, want 14", got)
	}
	flat := Growth{Rate: 0, BaseYear: 2011, TargetYear: 2025}
	if got, err := flat.Project(12345); err != nil || got != 12345 {
		t.Fatalf("zero-rate Project = %d, %v; want 12345", got, err)
	}
	same := Growth{Rate: 0.5, BaseYear: 2020, TargetYear: 2020}
	if got := same.Factor(); got != 1 {
		t.Fatalf("zero-period Factor = %v, want 1", got)
	}
}

func TestProject_nonNegativeRateNeverShrinks(t *testing.T) {
	g := Growth{Rate: 0.003, BaseYear: 2011, TargetYear: 2012}
	for _, p := range []int64{1, 7, 99, 1000, 123456789} {
		if got, _ := g.Project(p); got < p {
			t.Fatalf("Project(%d) = %d, shrank with non-negative rate", p, got)
		}
	}
}

func TestProject_OutOfRange(t *testing.T) {
	cases := []struct {
		name string
		base int64
	}{
		{"max", math.MaxInt64},
		{"just past the limit", 8_000_000_000_000_000_000},
		{"min", math.MinInt64},
	}
	for _, tc := range cases {
		if got, err := Default.Project(tc.base); err == nil {
			t.Errorf("%s: Project(%d) = %d, want error", tc.name, tc.base, got)
		}
	}
	if got, err := Default.Project(1_000_000_000_000_000); err != nil || got <= 1_000_000_000_000_000 {
		t.Fatalf("Project(1e15) = %d, %v", got, err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		g       Growth
		wantErr bool
	}{
		{"default", Default, false},
		{"negative ok", Growth{Rate: -0.01, BaseYear: 2011, TargetYear: 2025}, false},
		{"rate -1", Growth{Rate: -1, BaseYear: 2011, TargetYear: 2025}, true},
		{"backwards", Growth{Rate: 0.01, BaseYear: 2025, TargetYear: 2011}, true},
	}
	for _, tc := range cases {
		err := tc.g.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: Validate() err=%v, wantErr=%v", tc.name, err, tc.wantErr)
		}
	}
}
