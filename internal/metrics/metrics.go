// Package metrics records per-run counters for a wpstat invocation and writes
// them in Prometheus text format for a node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the metrics of one run on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	RecordsTotal   prometheus.Counter
	RecordsSkipped prometheus.Counter
	Communities    prometheus.Gauge
	Functional     prometheus.Gauge
	Broken         prometheus.Gauge
	Runs           *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
}

// NewRecorder creates and registers all metrics.
func NewRecorder() *Recorder {
	m := &Recorder{registry: prometheus.NewRegistry()}

	m.RecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wpstat_records_total",
		Help: "Water point records counted into community statistics",
	})
	m.RecordsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wpstat_records_skipped_total",
		Help: "Malformed records dropped under the skip policy",
	})
	m.Communities = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wpstat_communities",
		Help: "Communities in the last report",
	})
	m.Functional = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wpstat_water_points_functional",
		Help: "Functional water points in the last report",
	})
	m.Broken = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wpstat_water_points_broken",
		Help: "Broken water points in the last report",
	})
	m.Runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wpstat_runs_total",
		Help: "Report runs by outcome",
	}, []string{"outcome"})
	m.FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wpstat_fetch_duration_seconds",
		Help:    "Time spent fetching and decoding the source",
		Buckets: prometheus.DefBuckets,
	})

	m.registry.MustRegister(
		m.RecordsTotal,
		m.RecordsSkipped,
		m.Communities,
		m.Functional,
		m.Broken,
		m.Runs,
		m.FetchDuration,
	)
	return m
}

// ObserveFetch records how long the source took to load.
func (m *Recorder) ObserveFetch(d time.Duration) {
	m.FetchDuration.Observe(d.Seconds())
}

// ObserveAggregation records record counts of an aggregation pass.
func (m *Recorder) ObserveAggregation(records, skipped int) {
	m.RecordsTotal.Add(float64(records))
	m.RecordsSkipped.Add(float64(skipped))
}

// ObserveReport records report totals.
func (m *Recorder) ObserveReport(communities, functional, total int) {
	m.Communities.Set(float64(communities))
	m.Functional.Set(float64(functional))
	m.Broken.Set(float64(total - functional))
}

// ObserveOutcome counts a finished run.
func (m *Recorder) ObserveOutcome(outcome string) {
	m.Runs.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes all metrics to path atomically.
func (m *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
