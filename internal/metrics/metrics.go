package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "choropleth_fetch_total",
		Help: "Total dataset fetches by dataset",
	}, []string{"dataset"})
	FetchFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "choropleth_fetch_fail_total",
		Help: "Total failed dataset fetches by dataset",
	}, []string{"dataset"})
	FetchDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "choropleth_fetch_duration_ms",
		Help:    "Dataset fetch duration in milliseconds",
		Buckets: []float64{5, 20, 50, 100, 200, 500, 1000, 2000, 5000},
	}, []string{"dataset"})
	SnapshotLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "choropleth_snapshot_loads_total",
		Help: "Snapshot builds by result",
	}, []string{"result"})
	SnapshotCounties = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "choropleth_snapshot_counties",
		Help: "County features in the current snapshot",
	})
	RenderTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "choropleth_render_total",
		Help: "Map renders by format and scale",
	}, []string{"format", "scale"})
	RenderDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "choropleth_render_duration_ms",
		Help:    "Map render duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"format"})
	RenderCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "choropleth_render_cache_hits_total",
		Help: "Rendered documents served from redis",
	})
	RenderCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "choropleth_render_cache_misses_total",
		Help: "Rendered documents not found in redis",
	})
	HoverTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "choropleth_hover_total",
		Help: "Hover API requests by outcome",
	}, []string{"outcome"})
	HitCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "choropleth_hittest_cache_hits_total",
		Help: "Hit-test lookups answered from the LRU",
	})
)

func init() {
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(FetchFailTotal)
	prometheus.MustRegister(FetchDurationMs)
	prometheus.MustRegister(SnapshotLoadsTotal)
	prometheus.MustRegister(SnapshotCounties)
	prometheus.MustRegister(RenderTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(RenderCacheHitsTotal)
	prometheus.MustRegister(RenderCacheMissesTotal)
	prometheus.MustRegister(HoverTotal)
	prometheus.MustRegister(HitCacheHitsTotal)
}

// 文档注释：返回 Prometheus 指标处理器，在主入口挂载到 /metrics
func Handler() http.Handler { return promhttp.Handler() }
