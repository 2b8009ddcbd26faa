// Package config defines the configuration model for the census pipeline.
// A pipeline file is JSON (or YAML, chosen by extension) and may be omitted
// entirely: Default supplies the conventional data/ layout, environment
// variables override the file, and command-line flags override both.
//
// Example (trimmed):
//
//	{
//	  "job":     "census_2011",
//	  "input":   { "path": "data/external/census.csv", "options": { "trim_space": true } },
//	  "output":  { "path": "data/processed/census_clean.csv" },
//	  "join":    { "unmatched_state": "fail" },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "file:census.db", "table": "district_population" } },
//	  "metrics": { "backend": "none" }
//	}
package config

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job labels the run in logs and metrics.
	Job string `json:"job" yaml:"job"`

	Input   Input   `json:"input" yaml:"input"`
	Output  Output  `json:"output" yaml:"output"`
	Join    Join    `json:"join" yaml:"join"`
	Report  Report  `json:"report" yaml:"report"`
	Storage Storage `json:"storage" yaml:"storage"`
	Metrics Metrics `json:"metrics" yaml:"metrics"`
}

// Input locates the census table to normalize.
type Input struct {
	// Path is a local filesystem path or an http(s) URL.
	Path string `json:"path" yaml:"path"`

	// Options is interpreted by the CSV reader and, for URLs, the HTTP
	// client. Recognized keys:
	//   comma (string), trim_space (bool), header_map (object)
	//   retries (number), insecure (bool)
	Options Options `json:"options" yaml:"options"`
}

// Output locates the canonical CSV written by the run.
type Output struct {
	Path string `json:"path" yaml:"path"`
}

// Join controls district rows whose state code has no state-level row.
type Join struct {
	// UnmatchedState is "fail" (default) or "drop".
	UnmatchedState string `json:"unmatched_state" yaml:"unmatched_state"`
}

// Report controls the summary printed after a run.
type Report struct {
	// SampleRows is the number of output rows shown. Zero hides the sample.
	SampleRows int `json:"sample_rows" yaml:"sample_rows"`
}

// Storage selects the optional database the canonical table is published
// to after the CSV is written. An empty Kind disables publishing.
type Storage struct {
	// Kind selects the backend: "sqlite", "postgres", "mssql" or "mysql".
	Kind string `json:"kind" yaml:"kind"`

	DB DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures the database sink.
type DBConfig struct {
	// DSN is the driver connection string.
	DSN string `json:"dsn" yaml:"dsn"`

	// Table is the destination table, optionally schema-qualified.
	Table string `json:"table" yaml:"table"`

	// AutoCreateTable creates the table from the canonical definition when it
	// does not exist.
	AutoCreateTable bool `json:"auto_create_table" yaml:"auto_create_table"`

	// BatchSize bounds the rows sent per CopyFrom call. Zero means the
	// storage default.
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none", "pushgateway" or "datadog". Empty means "none".
	Backend        string `json:"backend" yaml:"backend"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr" yaml:"datadog_addr"`
}

// Default input and output paths, relative to the working directory.
const (
	DefaultInputPath  = "data/external/census_2011_district_population.csv"
	DefaultOutputPath = "data/external/census_2011_district_population_clean.csv"
	DefaultJob        = "census_normalize"
)

// Default returns the configuration used when no pipeline file is given.
func Default() Pipeline {
	return Pipeline{
		Job:     DefaultJob,
		Input:   Input{Path: DefaultInputPath, Options: Options{}},
		Output:  Output{Path: DefaultOutputPath},
		Join:    Join{UnmatchedState: "fail"},
		Report:  Report{SampleRows: 5},
		Storage: Storage{DB: DBConfig{Table: "district_population", BatchSize: 1000}},
		Metrics: Metrics{Backend: "none"},
	}
}

// Options is a small helper to fetch typed values from arbitrary decoded
// maps. It performs only minimal type coercion and returns the provided
// default when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64
// and YAML integers as int; both are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Used for the CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty map
// when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON makes a missing or null "options" object decode to a
// non-nil, empty Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON.
func (o *Options) UnmarshalYAML(n *yaml.Node) error {
	var tmp map[string]any
	if err := n.Decode(&tmp); err != nil {
		return err
	}
	if tmp == nil {
		tmp = map[string]any{}
	}
	*o = Options(tmp)
	return nil
}
