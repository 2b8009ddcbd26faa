package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"census/internal/parser/csv"
)

func TestInspectAll(t *testing.T) {
	raw := "../../testdata/census_raw_sample.csv"
	clean := "../../testdata/census_clean_sample.csv"
	missing := filepath.Join(t.TempDir(), "nope.csv")

	var buf bytes.Buffer
	failed := inspectAll(context.Background(), []string{raw, clean, missing}, csv.Options{}, &buf)
	if failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	out := buf.String()
	for _, want := range []string{
		"CENSUS FILE INSPECTION: " + raw,
		"CENSUS FILE INSPECTION: " + clean,
		"error loading " + missing + ": input file not found",
		"overview:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestInspect(t *testing.T) {
	r, err := inspect(context.Background(), "../../testdata/census_clean_sample.csv", csv.Options{})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if r.Shape != "CLEAN" || !r.Verdict.OK() || r.Path == "" {
		t.Fatalf("report = %+v", r)
	}
}
