package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the engine-level Prometheus instrumentation. A fresh
// Metrics is created per run so repeated runs in one process (tests) do
// not collide on metric registration.
type Metrics struct {
	registry *prometheus.Registry

	EventsCompleted prometheus.Counter
	EventsSkipped   prometheus.Counter
	ModuleDuration  *prometheus.HistogramVec
	ActiveWorkers   prometheus.Gauge
}

// NewMetrics builds and registers a fresh metric set.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		EventsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pixelsim",
			Name:      "events_completed_total",
			Help:      "Number of events that ran to completion.",
		}),
		EventsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pixelsim",
			Name:      "module_runs_skipped_total",
			Help:      "Number of module runs skipped due to unsatisfied required delegates.",
		}),
		ModuleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pixelsim",
			Name:      "module_run_seconds",
			Help:      "Wall-clock duration of a single module run() call.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"module"}),
		ActiveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pixelsim",
			Name:      "active_workers",
			Help:      "Number of event-task workers the current run is limited to.",
		}),
	}
	reg.MustRegister(m.EventsCompleted, m.EventsSkipped, m.ModuleDuration, m.ActiveWorkers)
	return m
}

// Registry exposes the underlying registry, e.g. for an HTTP /metrics
// endpoint wired up by the hosting binary (out of core scope).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
