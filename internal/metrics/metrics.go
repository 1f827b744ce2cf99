package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exertrack",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed, by route, method and status.",
	}, []string{"route", "method", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "exertrack",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds, by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
