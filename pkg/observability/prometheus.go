package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks exports every hook category as Prometheus metrics.
type PrometheusHooks struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	layoutNodes   prometheus.Histogram
	renderBytes   *prometheus.HistogramVec

	toggles *prometheus.CounterVec

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// NewPrometheusHooks registers the topicmap metrics with reg.
// Registering twice on the same registry panics.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "topicmap_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "topicmap_stage_errors_total",
			Help: "Total pipeline stage failures",
		}, []string{"stage"}),
		layoutNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "topicmap_layout_nodes",
			Help:    "Number of nodes per generated layout",
			Buckets: prometheus.LinearBuckets(10, 20, 8),
		}),
		renderBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "topicmap_render_bytes",
			Help:    "Size of rendered artifacts",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}, []string{"format"}),
		toggles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "topicmap_toggles_total",
			Help: "Total collapse/expand toggles by result",
		}, []string{"result"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "topicmap_cache_operations_total",
			Help: "Total cache operations by key type and result",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "topicmap_cache_written_bytes_total",
			Help: "Total bytes written to the cache",
		}, []string{"key_type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "topicmap_http_requests_total",
			Help: "Total HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "topicmap_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "topicmap_http_in_flight_requests",
			Help: "Requests currently being served",
		}),
	}
}

func (p *PrometheusHooks) stage(name string, d time.Duration, err error) {
	p.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		p.stageErrors.WithLabelValues(name).Inc()
	}
}

func (p *PrometheusHooks) OnDecodeStart(context.Context, string) {}

func (p *PrometheusHooks) OnDecodeComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	p.stage("decode", d, err)
}

func (p *PrometheusHooks) OnLayoutStart(context.Context, int) {}

func (p *PrometheusHooks) OnLayoutComplete(_ context.Context, nodes int, d time.Duration, err error) {
	p.stage("layout", d, err)
	if err == nil {
		p.layoutNodes.Observe(float64(nodes))
	}
}

func (p *PrometheusHooks) OnRenderStart(context.Context, string) {}

func (p *PrometheusHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	p.stage("render", d, err)
	if err == nil {
		p.renderBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (p *PrometheusHooks) OnToggle(_ context.Context, _ string, collapsed bool, err error) {
	switch {
	case err != nil:
		p.toggles.WithLabelValues("rejected").Inc()
	case collapsed:
		p.toggles.WithLabelValues("collapsed").Inc()
	default:
		p.toggles.WithLabelValues("expanded").Inc()
	}
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *PrometheusHooks) OnRequest(context.Context, string, string) {
	p.httpInFlight.Inc()
}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.httpInFlight.Dec()
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Install registers p for every hook category.
func (p *PrometheusHooks) Install() {
	SetPipelineHooks(p)
	SetVisibilityHooks(p)
	SetCacheHooks(p)
	SetHTTPHooks(p)
}

var (
	_ PipelineHooks   = (*PrometheusHooks)(nil)
	_ VisibilityHooks = (*PrometheusHooks)(nil)
	_ CacheHooks      = (*PrometheusHooks)(nil)
	_ HTTPHooks       = (*PrometheusHooks)(nil)
)
