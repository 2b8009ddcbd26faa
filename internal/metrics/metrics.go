// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the census pipeline.
//
// The package exposes a narrow interface (Backend) for counters, timings and
// gauges, with a global backend that defaults to a no-op so instrumentation is
// always safe to call. Concrete systems live in subpackages (prompush,
// datadog) and are installed with SetBackend from main.
package metrics

import "time"

// Metric names shared by every backend.
const (
	StepTotal           = "census_step_total"
	StepDurationSeconds = "census_step_duration_seconds"
	RowsTotal           = "census_rows_total"
	BatchesTotal        = "census_publish_batches_total"
	SummaryGauge        = "census_summary"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// SetGauge sets the current value of a gauge.
	SetGauge(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) SetGauge(name string, value float64, labels Labels)         {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency and success/failure of one pipeline step
// (load, classify, normalize, validate, write, publish).
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRows increments a row counter for the given job and kind.
//
// Kinds used by the pipeline:
//   - "input"
//   - "districts"
//   - "unmatched"
//   - "duplicates"
//   - "written"
//   - "published"
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBatches increments the publish batch counter for the given job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{
		"job": job,
	})
}

// Summary is the subset of run counters exported as gauges.
type Summary struct {
	Districts int
	States    int
	Pop2011   int64
	Pop2025   int64
}

// RecordSummary exports the final counters of a successful run as gauges,
// one series per field.
func RecordSummary(job string, s Summary) {
	for field, v := range map[string]float64{
		"districts":       float64(s.Districts),
		"states":          float64(s.States),
		"population_2011": float64(s.Pop2011),
		"population_2025": float64(s.Pop2025),
	} {
		backend.SetGauge(SummaryGauge, v, Labels{"job": job, "field": field})
	}
}
