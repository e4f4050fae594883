package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for HTTP requests and, once
// registered with the observability package, for searches, queries and
// cache traffic.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	stepsTotal      *prometheus.CounterVec
	finishedTotal   *prometheus.CounterVec
	resetsTotal     *prometheus.CounterVec
	queriesTotal    *prometheus.CounterVec
	invalidations   *prometheus.CounterVec
	cacheEvents     *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trackgraph_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackgraph_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackgraph_search_steps_total",
				Help: "Search steps taken, by whether the item was processed",
			},
			[]string{"corp", "processed"},
		),
		finishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackgraph_search_finished_total",
				Help: "Searches run to completion",
			},
			[]string{"corp"},
		),
		resetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackgraph_search_resets_total",
				Help: "Searches reset or replayed",
			},
			[]string{"corp"},
		),
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackgraph_queries_total",
				Help: "Connectivity queries, by whether the answer was memoized",
			},
			[]string{"query", "memoized"},
		),
		invalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackgraph_invalidations_total",
				Help: "Corporations whose graphs were cleared",
			},
			[]string{"corp"},
		),
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackgraph_cache_events_total",
				Help: "Result cache hits, misses and writes",
			},
			[]string{"event"},
		),
	}
	m.registry.MustRegister(
		m.requestDuration, m.requestsTotal,
		m.stepsTotal, m.finishedTotal, m.resetsTotal,
		m.queriesTotal, m.invalidations, m.cacheEvents,
	)
	return m
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument records request duration and count by route pattern.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// route pattern, not actual path (avoids cardinality explosion)
		path := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		status := strconv.Itoa(ww.Status())
		m.requestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(r.Method, path, status).Inc()
	})
}

func (m *Metrics) OnSeed(string, string, int) {}

func (m *Metrics) OnAdvance(_, corp string, _ int, processed bool) {
	m.stepsTotal.WithLabelValues(corp, strconv.FormatBool(processed)).Inc()
}

func (m *Metrics) OnFinish(_, corp string, _ int) {
	m.finishedTotal.WithLabelValues(corp).Inc()
}

func (m *Metrics) OnReset(_, corp string) {
	m.resetsTotal.WithLabelValues(corp).Inc()
}

func (m *Metrics) OnQuery(_, query string, memoized bool) {
	m.queriesTotal.WithLabelValues(query, strconv.FormatBool(memoized)).Inc()
}

func (m *Metrics) OnInvalidate(corp string) {
	m.invalidations.WithLabelValues(corp).Inc()
}

func (m *Metrics) OnCacheHit(context.Context, string) {
	m.cacheEvents.WithLabelValues("hit").Inc()
}

func (m *Metrics) OnCacheMiss(context.Context, string) {
	m.cacheEvents.WithLabelValues("miss").Inc()
}

func (m *Metrics) OnCacheSet(context.Context, string, int) {
	m.cacheEvents.WithLabelValues("set").Inc()
}
