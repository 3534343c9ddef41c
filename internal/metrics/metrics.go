// Package metrics records run metrics behind a pluggable backend.
//
// Callers use RecordStep, RecordRow and RecordReport. The backend defaults
// to a no-op so the calls are always safe; cmd/mariprog installs a
// Pushgateway or DogStatsD backend from configuration.
package metrics

import "time"

// Metric names shared by every backend.
const (
	StepTotal       = "mariprog_step_total"
	StepDuration    = "mariprog_step_duration_seconds"
	RecordsTotal    = "mariprog_records_total"
	ReportLineTotal = "mariprog_report_lines_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration style value.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

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

// RecordStep counts one parse, report or export step and records how long
// it took, labelled with its outcome.
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
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow adds delta to the record counter for kind. Kinds are the input
// names ("programme", "ports", ...) and "exported".
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordReport adds the number of lines a report printed.
func RecordReport(job, report string, lines int64) {
	if lines <= 0 {
		return
	}
	backend.IncCounter(ReportLineTotal, float64(lines), Labels{
		"job":    job,
		"report": report,
	})
}
