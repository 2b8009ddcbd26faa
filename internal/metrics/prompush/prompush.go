// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A census run is a short-lived batch job, so instead of exposing a scrape
// endpoint the collected series are pushed once at the end of the run. The
// job label is carried by the Pushgateway grouping key, never by the series.
package prompush

import (
	"fmt"

	"census/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	grouping   [][2]string
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // census_step_total
	stepDuration *prometheus.SummaryVec // census_step_duration_seconds
	rowCounter   *prometheus.CounterVec // census_rows_total
	batchCounter prometheus.Counter     // census_publish_batches_total
	summary      *prometheus.GaugeVec   // census_summary
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName: the Pushgateway "job" name (usually the pipeline job).
// gatewayURL: base URL of the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "census"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Pipeline step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.StepDurationSeconds,
			Help:       "Duration of pipeline steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Row counts per kind (input, districts, unmatched, duplicates, written, published).",
		},
		[]string{"kind"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Batches sent to the publish database.",
		},
	)
	summary := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: metrics.SummaryGauge,
			Help: "Final counters of the last successful run, one series per field.",
		},
		[]string{"field"},
	)

	for name, c := range map[string]prometheus.Collector{
		"step counter": stepCounter,
		"step summary": stepDuration,
		"row counter":  rowCounter,
		"batch count":  batchCounter,
		"summary":      summary,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		stepCounter:  stepCounter,
		stepDuration: stepDuration,
		rowCounter:   rowCounter,
		batchCounter: batchCounter,
		summary:      summary,
	}, nil
}

// WithGrouping adds a grouping label to every push, e.g. the run ID, so
// concurrent runs of the same job do not overwrite each other.
func (b *Backend) WithGrouping(name, value string) *Backend {
	b.grouping = append(b.grouping, [2]string{name, value})
	return b
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)

	case metrics.RowsTotal:
		if b.rowCounter == nil {
			return
		}
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)

	case metrics.BatchesTotal:
		if b.batchCounter == nil {
			return
		}
		b.batchCounter.Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDurationSeconds || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

func (b *Backend) SetGauge(name string, value float64, labels metrics.Labels) {
	if name != metrics.SummaryGauge || b.summary == nil {
		return
	}
	b.summary.WithLabelValues(labels["field"]).Set(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	p := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg)
	for _, g := range b.grouping {
		p = p.Grouping(g[0], g[1])
	}
	return p.Push()
}
