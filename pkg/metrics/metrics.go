// Package metrics is optional prometheus instrumentation for cmd/cellml's
// -metrics-addr flag, grounded on dd0wney-graphdb/pkg/metrics's Registry
// pattern (a struct of promauto-registered collectors plus Record*/Update*
// methods) — narrowed here to the handful of counters a single-invocation
// analyzer can meaningfully report, in place of that repo's cluster/
// replication/query surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector this CLI exposes.
type Registry struct {
	registry *prometheus.Registry

	DiagnosticsTotal         *prometheus.CounterVec
	ClassifiedVariablesTotal *prometheus.CounterVec
	GenerationDuration       prometheus.Histogram
	CacheHitsTotal           prometheus.Counter
	CacheMissesTotal         prometheus.Counter
}

// New builds a Registry backed by a fresh prometheus.Registry (not the
// global default, so multiple Registries in the same process never
// collide).
func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.DiagnosticsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cellml_diagnostics_total",
			Help: "Total diagnostics emitted, by kind and severity.",
		},
		[]string{"kind", "severity"},
	)

	r.ClassifiedVariablesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cellml_classified_variables_total",
			Help: "Total classified variables, by role.",
		},
		[]string{"role"},
	)

	r.GenerationDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cellml_generation_duration_seconds",
			Help:    "Duration of a full analyze+generate pass.",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.CacheHitsTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "cellml_cache_hits_total",
			Help: "Generated-code cache hits.",
		},
	)

	r.CacheMissesTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "cellml_cache_misses_total",
			Help: "Generated-code cache misses.",
		},
	)

	return r
}

// Gatherer exposes the underlying registry for wiring into an
// http.Handler via promhttp.HandlerFor.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// RecordDiagnostic increments the diagnostics counter for kind/severity.
func (r *Registry) RecordDiagnostic(kind, severity string) {
	r.DiagnosticsTotal.WithLabelValues(kind, severity).Inc()
}

// RecordClassifiedVariable increments the classified-variable counter for
// role.
func (r *Registry) RecordClassifiedVariable(role string) {
	r.ClassifiedVariablesTotal.WithLabelValues(role).Inc()
}

// RecordGeneration observes how long an analyze+generate pass took.
func (r *Registry) RecordGeneration(d time.Duration) {
	r.GenerationDuration.Observe(d.Seconds())
}

// RecordCacheResult increments the hit or miss counter.
func (r *Registry) RecordCacheResult(hit bool) {
	if hit {
		r.CacheHitsTotal.Inc()
		return
	}
	r.CacheMissesTotal.Inc()
}
