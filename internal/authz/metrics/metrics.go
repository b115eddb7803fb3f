package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the permission resolver.
type Metrics struct {
	// Cache hit/miss split for permission set lookups.
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Evictions by scope: "user" (single entry) or "all" (full clear).
	Evictions *prometheus.CounterVec

	// Cold-load latency: repository fetch plus union on a cache miss.
	LoadLatency prometheus.Histogram
}

// New creates and registers the resolver metrics.
// Call once per process; repeated registration panics by prometheus design.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_authz_cache_hits_total",
			Help: "Total permission checks served from the per-user cache",
		}),

		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_authz_cache_misses_total",
			Help: "Total permission checks that required a repository load",
		}),

		Evictions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_authz_cache_evictions_total",
			Help: "Total cache evictions by scope",
		}, []string{"scope"}), // scope: "user", "all"

		LoadLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "backoffice_authz_load_duration_seconds",
			Help:    "Duration of permission set loads from the repository boundary",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveLoad records one cold load duration.
func (m *Metrics) ObserveLoad(start time.Time) {
	m.LoadLatency.Observe(time.Since(start).Seconds())
}
