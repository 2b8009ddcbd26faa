package file

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeList(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inputs.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadList_ResolvesRelativeEntries(t *testing.T) {
	t.Parallel()

	content := `
# 2011 exports
raw/census_2011_district_population.csv
   # already cleaned
/data/processed/clean.csv

   raw/extra.csv
https://example.org/census/2011.csv
`
	path := writeList(t, content)
	dir := filepath.Dir(path)

	got, err := ReadList(path)
	if err != nil {
		t.Fatalf("ReadList error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "raw", "census_2011_district_population.csv"),
		"/data/processed/clean.csv",
		filepath.Join(dir, "raw", "extra.csv"),
		"https://example.org/census/2011.csv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ReadList(%q) = %#v, want %#v", path, got, want)
	}
}

func TestReadList_EmptyFile(t *testing.T) {
	t.Parallel()

	got, err := ReadList(writeList(t, ""))
	if err != nil {
		t.Fatalf("ReadList error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestReadList_FileNotFound(t *testing.T) {
	t.Parallel()

	if _, err := ReadList(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file, got nil")
	}
}
