// Package metrics defines the Prometheus collectors filled during a
// benchmark run. There is no scrape endpoint; a finished run is written out
// in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for one run on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	CountDuration *prometheus.HistogramVec
	CountsTotal   *prometheus.CounterVec
	UniqueWords   *prometheus.GaugeVec
	Discrepancies *prometheus.CounterVec
}

// New creates and registers the benchmark collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CountDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wordbench_count_duration_seconds",
				Help:    "Wall time of one count by backend.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
			},
			[]string{"backend"},
		),
		CountsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordbench_counts_total",
				Help: "Counts run by backend and outcome (ok or an error type).",
			},
			[]string{"backend", "outcome"},
		),
		UniqueWords: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wordbench_unique_words",
				Help: "Unique words found by backend per input file.",
			},
			[]string{"file", "backend"},
		),
		Discrepancies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordbench_discrepancies_total",
				Help: "Files on which a backend disagreed with the reference backend.",
			},
			[]string{"backend"},
		),
	}

	m.registry.MustRegister(
		m.CountDuration,
		m.CountsTotal,
		m.UniqueWords,
		m.Discrepancies,
	)
	return m
}

// ObserveCount records one finished count. errorType is empty on success.
func (m *Metrics) ObserveCount(file, backend string, elapsed time.Duration, uniqueWords int, errorType string) {
	if errorType != "" {
		m.CountsTotal.WithLabelValues(backend, errorType).Inc()
		return
	}
	m.CountsTotal.WithLabelValues(backend, "ok").Inc()
	m.CountDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
	m.UniqueWords.WithLabelValues(file, backend).Set(float64(uniqueWords))
}

// RecordDiscrepancy counts a disagreement of backend with the reference.
func (m *Metrics) RecordDiscrepancy(backend string) {
	m.Discrepancies.WithLabelValues(backend).Inc()
}

// WriteTextfile writes every collected metric to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
