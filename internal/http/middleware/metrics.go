// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// Prometheus instrumentation for HTTP traffic plus a pair of domain counters
// maintained by the handlers. Label cardinality stays bounded by using the
// registered Gin route as the path label, falling back to the raw URL path
// only when no route matched.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// Status is omitted from the latency histogram to keep cardinality low.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// DocumentsUploaded counts successfully ingested documents.
	DocumentsUploaded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "documents_uploaded_total",
			Help: "Total number of documents successfully ingested.",
		},
	)

	// ChatTurns counts completed chat turns by outcome ("answered" when the
	// completion provider replied, "fallback" when a fixed failure message
	// was returned instead).
	ChatTurns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total number of chat turns by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, DocumentsUploaded, ChatTurns)
}

// Metrics returns a Gin middleware that instruments requests with Prometheus.
// Mount the exposition endpoint separately:
//
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpReqs.WithLabelValues(method, path, status).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
