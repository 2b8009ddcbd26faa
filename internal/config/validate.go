package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced but does not block
	// execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.db.table").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is a SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation of a resolved Pipeline. It
// does not touch the filesystem or the database; a missing input file is
// reported by the run itself.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels logs and metrics",
		})
	}
	issues = append(issues, validateFiles(p.Input, p.Output)...)
	issues = append(issues, validateJoin(p.Join)...)
	if p.Report.SampleRows < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "report.sample_rows",
			Message:  "sample_rows must not be negative",
		})
	}
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateMetrics(p.Metrics)...)

	return issues
}

var knownInputOptions = map[string]struct{}{
	"comma":      {},
	"trim_space": {},
	"header_map": {},
	"retries":    {},
	"insecure":   {},
}

func validateFiles(in Input, out Output) []Issue {
	var issues []Issue

	if strings.TrimSpace(in.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input.path",
			Message:  "input.path must not be empty",
		})
	}
	if strings.TrimSpace(out.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.path",
			Message:  "output.path must not be empty",
		})
	}
	if in.Path != "" && filepath.Clean(in.Path) == filepath.Clean(out.Path) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.path",
			Message:  "output.path must differ from input.path; the input would be overwritten",
		})
	}

	if c := in.Options.String("comma", ""); c != "" && utf8.RuneCountInString(c) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input.options.comma",
			Message:  fmt.Sprintf("comma must be a single character, got %q", c),
		})
	}
	for k := range in.Options {
		if _, ok := knownInputOptions[k]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "input.options." + k,
				Message:  fmt.Sprintf("unknown csv option %q is ignored", k),
			})
		}
	}
	return issues
}

func validateJoin(j Join) []Issue {
	switch strings.ToLower(strings.TrimSpace(j.UnmatchedState)) {
	case "", "fail", "drop":
		return nil
	}
	return []Issue{{
		Severity: SeverityError,
		Path:     "join.unmatched_state",
		Message:  fmt.Sprintf("unmatched_state must be \"fail\" or \"drop\", got %q", j.UnmatchedState),
	}}
}

// tableName accepts "table" or "schema.table" with plain identifiers; the
// name is interpolated into DDL and DELETE statements.
var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// validateStorage validates storage configuration and DB settings. An empty
// kind disables publishing and skips the DB checks.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return nil
	}

	known := map[string]struct{}{
		"postgres": {},
		"mysql":    {},
		"mssql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q (want postgres, mysql, mssql or sqlite)", s.Kind),
		})
	}

	db := s.DB
	if strings.TrimSpace(db.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	switch {
	case strings.TrimSpace(db.Table) == "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage.db.table must not be empty",
		})
	case !tableName.MatchString(db.Table):
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  fmt.Sprintf("table %q is not a plain [schema.]name identifier", db.Table),
		})
	}
	if db.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	if !db.AutoCreateTable {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.db.auto_create_table",
			Message:  "auto_create_table is false; the destination table must already exist",
		})
	}

	return issues
}

func validateMetrics(m Metrics) []Issue {
	switch m.Backend {
	case "", "none":
		return nil
	case "pushgateway":
		if m.PushgatewayURL == "" {
			return []Issue{{
				Severity: SeverityWarning,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway_url is empty; http://localhost:9091 is used",
			}}
		}
		return nil
	case "datadog":
		if m.DatadogAddr == "" {
			return []Issue{{
				Severity: SeverityWarning,
				Path:     "metrics.datadog_addr",
				Message:  "datadog_addr is empty; 127.0.0.1:8125 is used",
			}}
		}
		return nil
	}
	return []Issue{{
		Severity: SeverityError,
		Path:     "metrics.backend",
		Message:  fmt.Sprintf("unknown metrics backend %q (want none, pushgateway or datadog)", m.Backend),
	}}
}
