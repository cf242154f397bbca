// Package metrics exposes Prometheus instrumentation for catalog builds
// and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	BuildsTotal      *prometheus.CounterVec
	BuildDuration    prometheus.Histogram
	BuildQuotaUnits  prometheus.Gauge
	CatalogVideos    prometheus.Gauge
	CatalogPlaylists prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		BuildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_builds_total",
			Help: "Catalog build attempts by outcome.",
		}, []string{"status"}),
		BuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_build_duration_seconds",
			Help:    "Wall time of catalog builds.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		BuildQuotaUnits: factory.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_build_quota_units",
			Help: "YouTube API quota units consumed by the last build.",
		}),
		CatalogVideos: factory.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_videos",
			Help: "Videos in the current catalog snapshot.",
		}),
		CatalogPlaylists: factory.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_playlists",
			Help: "Playlists in the current catalog snapshot.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "API requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "API request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveBuild records one build attempt.
func (m *Metrics) ObserveBuild(err error, elapsed time.Duration, quotaUnits int64) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.BuildsTotal.WithLabelValues(status).Inc()
	m.BuildDuration.Observe(elapsed.Seconds())
	m.BuildQuotaUnits.Set(float64(quotaUnits))
}

// SetCatalogSize records the size of the snapshot currently served.
func (m *Metrics) SetCatalogSize(videos, playlists int) {
	m.CatalogVideos.Set(float64(videos))
	m.CatalogPlaylists.Set(float64(playlists))
}

// GinMiddleware instruments every request handled by the router.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
