package config

import (
	"github.com/caarlos0/env/v11"
)

// Overrides holds the settings that can be supplied outside the pipeline
// file. Empty fields leave the pipeline untouched. The command-line flags
// fill the same struct so both layers share Apply.
type Overrides struct {
	Job            string `env:"CENSUS_JOB"`
	Input          string `env:"CENSUS_INPUT"`
	Output         string `env:"CENSUS_OUTPUT"`
	UnmatchedState string `env:"CENSUS_UNMATCHED_STATE"`
	StorageKind    string `env:"CENSUS_STORAGE_KIND"`
	StorageDSN     string `env:"CENSUS_STORAGE_DSN"`
	MetricsBackend string `env:"METRICS_BACKEND"`
	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
	DatadogAddr    string `env:"DD_AGENT_ADDR"`
}

// OverridesFromEnv reads Overrides from the process environment.
func OverridesFromEnv() (Overrides, error) {
	return env.ParseAs[Overrides]()
}

// OverridesFrom reads Overrides from environ instead of the process
// environment.
func OverridesFrom(environ map[string]string) (Overrides, error) {
	return env.ParseAsWithOptions[Overrides](env.Options{Environment: environ})
}

// Apply copies every non-empty field of o onto p.
func (o Overrides) Apply(p *Pipeline) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Job, o.Job)
	set(&p.Input.Path, o.Input)
	set(&p.Output.Path, o.Output)
	set(&p.Join.UnmatchedState, o.UnmatchedState)
	set(&p.Storage.Kind, o.StorageKind)
	set(&p.Storage.DB.DSN, o.StorageDSN)
	set(&p.Metrics.Backend, o.MetricsBackend)
	set(&p.Metrics.PushgatewayURL, o.PushgatewayURL)
	set(&p.Metrics.DatadogAddr, o.DatadogAddr)
}

// Resolve applies the documented precedence: flags over environment over the
// pipeline file over Default.
func Resolve(path string, environ map[string]string, flags Overrides) (Pipeline, error) {
	p, err := Load(path)
	if err != nil {
		return Pipeline{}, err
	}
	var fromEnv Overrides
	if environ == nil {
		fromEnv, err = OverridesFromEnv()
	} else {
		fromEnv, err = OverridesFrom(environ)
	}
	if err != nil {
		return Pipeline{}, err
	}
	fromEnv.Apply(&p)
	flags.Apply(&p)
	return p, nil
}
