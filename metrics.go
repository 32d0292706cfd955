package resolver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	metricQueriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "resolver",
		Name:      "queries_total",
		Help:      "Number of top level Exchange() calls handled.",
	})

	metricQueryErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "resolver",
		Name:      "query_errors_total",
		Help:      "Number of Exchange() calls that returned an error.",
	})

	metricQueryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "resolver",
		Name:      "query_duration_seconds",
		Help:      "Time taken to answer a query end to end.",
		Buckets:   prometheus.DefBuckets,
	})

	metricCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "resolver",
		Name:      "cache_hits_total",
		Help:      "Number of zone exchanges served from Cache.",
	})

	metricCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "resolver",
		Name:      "cache_misses_total",
		Help:      "Number of zone exchanges that had to go to a nameserver.",
	})

	metricZonesKnown = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "resolver",
		Name:      "zones_known",
		Help:      "Number of zones currently held in the zone store.",
	})
)

func init() {
	registry.MustRegister(
		metricQueriesTotal,
		metricQueryErrorsTotal,
		metricQueryDuration,
		metricCacheHitsTotal,
		metricCacheMissesTotal,
		metricZonesKnown,
	)
}

// MetricsHandler exposes the resolver's metrics in the Prometheus exposition format,
// ready to be mounted on whatever mux the embedding application already runs.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RecordZonesKnown lets CountZones() callers publish the current zone store size
// under the zones_known gauge.
func (resolver *Resolver) RecordZonesKnown() {
	metricZonesKnown.Set(float64(resolver.CountZones()))
}
