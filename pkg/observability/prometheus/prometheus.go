// Package prometheus implements the observability hooks with Prometheus
// collectors.
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/archgraph/pkg/observability"
)

const namespace = "archgraph"

// Metrics implements [observability.LayoutHooks], [observability.CacheHooks]
// and [observability.HTTPHooks].
type Metrics struct {
	gatherer prom.Gatherer

	classifyDuration *prom.HistogramVec
	layoutDuration   *prom.HistogramVec
	layoutNodes      *prom.HistogramVec
	layoutsInFlight  prom.Gauge

	cacheLookups *prom.CounterVec
	cacheBytes   *prom.CounterVec
	cacheErrors  *prom.CounterVec

	httpRequests *prom.CounterVec
	httpDuration *prom.HistogramVec
	httpErrors   *prom.CounterVec
}

// New registers the collectors with reg. A nil reg gets a fresh registry
// with the Go and process collectors.
func New(reg *prom.Registry) *Metrics {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	f := promauto.With(reg)

	return &Metrics{
		gatherer: reg,

		classifyDuration: f.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classify",
			Name:      "duration_seconds",
			Help:      "Time spent classifying file lists into graphs.",
			Buckets:   prom.DefBuckets,
		}, []string{"classifier", "status"}),

		layoutDuration: f.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "duration_seconds",
			Help:      "Time spent computing layouts.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"strategy", "status"}),

		layoutNodes: f.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "nodes",
			Help:      "Number of nodes per layout request.",
			Buckets:   prom.ExponentialBuckets(1, 4, 8),
		}, []string{"strategy"}),

		layoutsInFlight: f.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "in_flight",
			Help:      "Layouts currently being computed.",
		}),

		cacheLookups: f.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by result.",
		}, []string{"key_type", "result"}),

		cacheBytes: f.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"key_type"}),

		cacheErrors: f.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "errors_total",
			Help:      "Ignored cache backend failures.",
		}, []string{"key_type", "op"}),

		httpRequests: f.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "path", "code"}),

		httpDuration: f.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "path"}),

		httpErrors: f.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "transport_errors_total",
			Help:      "HTTP calls that failed before a response arrived.",
		}, []string{"method", "host"}),
	}
}

// Register installs m as the global layout, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetLayoutHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnClassifyStart(context.Context, string, int) {}

func (m *Metrics) OnClassifyComplete(_ context.Context, classifier string, _ int, d time.Duration, err error) {
	m.classifyDuration.WithLabelValues(classifier, status(err)).Observe(d.Seconds())
}

func (m *Metrics) OnLayoutStart(_ context.Context, strategy string, nodes int) {
	m.layoutsInFlight.Inc()
	m.layoutNodes.WithLabelValues(strategy).Observe(float64(nodes))
}

func (m *Metrics) OnLayoutComplete(_ context.Context, strategy string, _ int, d time.Duration, err error) {
	m.layoutsInFlight.Dec()
	m.layoutDuration.WithLabelValues(strategy, status(err)).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnCacheError(_ context.Context, keyType, op string, _ error) {
	m.cacheErrors.WithLabelValues(keyType, op).Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, _, path string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, host, _ string, _ error) {
	m.httpErrors.WithLabelValues(method, host).Inc()
}

var (
	_ observability.LayoutHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
