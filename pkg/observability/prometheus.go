package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rcd"

// Metrics implements every hook interface on top of Prometheus collectors.
//
//	m := observability.NewMetrics(prometheus.NewRegistry())
//	m.Install()
//	mux.Handle("/metrics", m.Handler())
type Metrics struct {
	reg prometheus.Gatherer

	boundaryRuns     *prometheus.CounterVec
	boundaryDuration *prometheus.HistogramVec
	learnRuns        *prometheus.CounterVec
	learnDuration    *prometheus.HistogramVec
	learnEdges       *prometheus.HistogramVec
	ciTests          *prometheus.CounterVec
	eliminations     *prometheus.CounterVec
	cacheEvents      *prometheus.CounterVec
	cacheBytes       *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		reg: reg,
		boundaryRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boundary_runs_total",
			Help:      "Markov boundary discoveries by finder and outcome.",
		}, []string{"finder", "outcome"}),
		boundaryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "boundary_duration_seconds",
			Help:      "Markov boundary discovery latency.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"finder"}),
		learnRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "learn_runs_total",
			Help:      "Skeleton learning runs by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		learnDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "learn_duration_seconds",
			Help:      "Skeleton learning latency.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"algorithm"}),
		learnEdges: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "learn_edges",
			Help:      "Edges in learned skeletons.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"algorithm"}),
		ciTests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ci_queries_total",
			Help:      "Conditional independence queries issued by learners.",
		}, []string{"algorithm"}),
		eliminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eliminations_total",
			Help:      "Variables eliminated.",
		}, []string{"algorithm"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes by key kind.",
		}, []string{"kind", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key kind.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.boundaryRuns, m.boundaryDuration,
		m.learnRuns, m.learnDuration, m.learnEdges, m.ciTests, m.eliminations,
		m.cacheEvents, m.cacheBytes,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// Install registers m as the global learn, cache and HTTP hooks.
func (m *Metrics) Install() {
	SetLearnHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) OnBoundaryStart(context.Context, string, int) {}

func (m *Metrics) OnBoundaryComplete(_ context.Context, finder string, d time.Duration, err error) {
	m.boundaryRuns.WithLabelValues(finder, outcome(err)).Inc()
	m.boundaryDuration.WithLabelValues(finder).Observe(d.Seconds())
}

func (m *Metrics) OnLearnStart(context.Context, string, int) {}

func (m *Metrics) OnEliminate(_ context.Context, algorithm string, _, _ int) {
	m.eliminations.WithLabelValues(algorithm).Inc()
}

func (m *Metrics) OnLearnComplete(_ context.Context, algorithm string, edges int, queries int64, d time.Duration, err error) {
	m.learnRuns.WithLabelValues(algorithm, outcome(err)).Inc()
	m.learnDuration.WithLabelValues(algorithm).Observe(d.Seconds())
	if err == nil {
		m.learnEdges.WithLabelValues(algorithm).Observe(float64(edges))
		m.ciTests.WithLabelValues(algorithm).Add(float64(queries))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, kind string) {
	m.cacheEvents.WithLabelValues(kind, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, kind string) {
	m.cacheEvents.WithLabelValues(kind, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, kind string, size int) {
	m.cacheEvents.WithLabelValues(kind, "set").Inc()
	m.cacheBytes.WithLabelValues(kind).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ LearnHooks = (*Metrics)(nil)
	_ CacheHooks = (*Metrics)(nil)
	_ HTTPHooks  = (*Metrics)(nil)
)
