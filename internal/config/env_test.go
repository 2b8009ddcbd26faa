package config

import (
	"testing"
)

func TestOverridesFrom(t *testing.T) {
	t.Parallel()

	o, err := OverridesFrom(map[string]string{
		"CENSUS_INPUT":           "env.csv",
		"CENSUS_UNMATCHED_STATE": "drop",
		"METRICS_BACKEND":        "pushgateway",
		"PUSHGATEWAY_URL":        "http://gw:9091",
		"UNRELATED":              "x",
	})
	if err != nil {
		t.Fatalf("OverridesFrom: %v", err)
	}
	want := Overrides{
		Input:          "env.csv",
		UnmatchedState: "drop",
		MetricsBackend: "pushgateway",
		PushgatewayURL: "http://gw:9091",
	}
	if o != want {
		t.Fatalf("got %+v, want %+v", o, want)
	}
}

func TestOverrides_ApplySkipsEmpty(t *testing.T) {
	t.Parallel()

	p := Default()
	Overrides{Output: "out.csv", StorageKind: "sqlite", StorageDSN: "file:x.db"}.Apply(&p)
	if p.Output.Path != "out.csv" || p.Storage.Kind != "sqlite" || p.Storage.DB.DSN != "file:x.db" {
		t.Fatalf("applied = %+v", p)
	}
	if p.Input.Path != DefaultInputPath || p.Job != DefaultJob {
		t.Fatalf("empty override clobbered a value: %+v", p)
	}
}

// TestResolve_Precedence checks flag > env > file > default, one layer per
// field so each assertion pins a single rule.
func TestResolve_Precedence(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "pipeline.json", `{
	  "job": "from_file",
	  "input": { "path": "file.csv" },
	  "output": { "path": "file_out.csv" }
	}`)
	environ := map[string]string{
		"CENSUS_INPUT":  "env.csv",
		"CENSUS_OUTPUT": "env_out.csv",
	}
	flags := Overrides{Output: "flag_out.csv"}

	p, err := Resolve(path, environ, flags)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Output.Path != "flag_out.csv" {
		t.Errorf("output = %q, want flag value", p.Output.Path)
	}
	if p.Input.Path != "env.csv" {
		t.Errorf("input = %q, want env value", p.Input.Path)
	}
	if p.Job != "from_file" {
		t.Errorf("job = %q, want file value", p.Job)
	}
	if p.Report.SampleRows != 5 {
		t.Errorf("sample_rows = %d, want default", p.Report.SampleRows)
	}
}

func TestResolve_BadFile(t *testing.T) {
	t.Parallel()

	if _, err := Resolve(writeConfig(t, "p.json", "{"), map[string]string{}, Overrides{}); err == nil {
		t.Fatal("expected decode error")
	}
}
