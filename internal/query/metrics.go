package query

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the query cache
type Metrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	fetches   prometheus.Counter
	coalesced prometheus.Counter
	errors    prometheus.Counter
	entries   prometheus.Gauge
}

// NewMetrics creates the cache metrics and registers them with reg.
// A nil registerer leaves the metrics unregistered (still safe to update).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "movied",
			Subsystem: "query_cache",
			Name:      "hits_total",
			Help:      "Total number of requests served from a cached entry",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "movied",
			Subsystem: "query_cache",
			Name:      "misses_total",
			Help:      "Total number of requests with no usable cached entry",
		}),
		fetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "movied",
			Subsystem: "query_cache",
			Name:      "fetches_total",
			Help:      "Total number of upstream fetches started",
		}),
		coalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "movied",
			Subsystem: "query_cache",
			Name:      "coalesced_total",
			Help:      "Total number of fetch results shared between concurrent callers",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "movied",
			Subsystem: "query_cache",
			Name:      "fetch_errors_total",
			Help:      "Total number of failed upstream fetches",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "movied",
			Subsystem: "query_cache",
			Name:      "entries",
			Help:      "Current number of cache entries",
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.hits, m.misses, m.fetches, m.coalesced, m.errors, m.entries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
