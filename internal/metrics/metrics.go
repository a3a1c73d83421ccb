// Package metrics exposes Prometheus collectors for a single robotsmap run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns a private registry so each run (and each test) starts at zero.
type Recorder struct {
	registry       *prometheus.Registry
	fetchAttempts  *prometheus.CounterVec
	fetchBackoff   prometheus.Histogram
	artifactsSaved *prometheus.CounterVec
}

// NewRecorder registers the run collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "robotsmap_fetch_attempts_total",
				Help: "Total number of fetch attempts, labeled by outcome (ok, status, error).",
			},
			[]string{"outcome"},
		),
		fetchBackoff: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "robotsmap_fetch_backoff_seconds",
				Help:    "Histogram of delays slept between fetch attempts.",
				Buckets: []float64{1, 5, 10, 20, 40, 80},
			},
		),
		artifactsSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "robotsmap_artifacts_saved_total",
				Help: "Total number of artifacts written, labeled by kind.",
			},
			[]string{"kind"},
		),
	}
	r.registry.MustRegister(r.fetchAttempts, r.fetchBackoff, r.artifactsSaved)
	return r
}

// ObserveAttempt increments the attempt counter for outcome.
func (r *Recorder) ObserveAttempt(outcome string) {
	r.fetchAttempts.WithLabelValues(outcome).Inc()
}

// ObserveBackoff records one backoff sleep.
func (r *Recorder) ObserveBackoff(delay time.Duration) {
	r.fetchBackoff.Observe(delay.Seconds())
}

// ObserveSaved increments the saved-artifact counter for kind.
func (r *Recorder) ObserveSaved(kind string) {
	r.artifactsSaved.WithLabelValues(kind).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile dumps the registry in the text exposition format, suitable for
// the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
