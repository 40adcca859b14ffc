package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	activeRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Number of currently active HTTP requests",
		},
	)

	// RevisionsRecorded 记录的历史版本数
	RevisionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_revisions_recorded_total",
			Help: "Revisions captured before translation overwrites",
		},
		[]string{"locale", "reason"},
	)

	// PublicationTransitions 发布状态流转次数
	PublicationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_publication_transitions_total",
			Help: "Post publication state transitions",
		},
		[]string{"status"},
	)

	// PreviewResolutions 预览令牌解析结果
	PreviewResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_preview_resolutions_total",
			Help: "Preview token resolutions by result",
		},
		[]string{"result"},
	)

	// SlugConflicts slug 冲突次数
	SlugConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_slug_conflicts_total",
			Help: "Rejected writes caused by slug collisions",
		},
		[]string{"locale"},
	)
)

// Middleware 采集 HTTP 请求指标，skipPath 为指标端点自身
func Middleware(skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == skipPath {
			c.Next()
			return
		}

		start := time.Now()
		activeRequests.Inc()

		c.Next()

		activeRequests.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler 指标导出端点
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
