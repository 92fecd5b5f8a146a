package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "farmacierre_requests_total",
		Help: "How many HTTP requests processed, partitioned by status code, method and route.",
	},
	[]string{"code", "method", "url"},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "farmacierre_request_duration_seconds",
		Help: "The HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "url"},
)

// RegisterMetrics registers the HTTP collectors plus any extra ones with reg.
// Collectors that are already registered are skipped, so building several
// engines in one process is fine.
func RegisterMetrics(reg prometheus.Registerer, extra ...prometheus.Collector) error {
	collectors := append([]prometheus.Collector{requestCount, requestDuration}, extra...)
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return fmt.Errorf("could not register %T with Prometheus: %w", c, err)
		}
	}
	return nil
}

// Metrics updates the request counters. The url label is the route template
// (/v1/registros/:id), never the raw path, to keep label cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		url := c.FullPath()
		if url == "" {
			url = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		requestCount.WithLabelValues(status, c.Request.Method, url).Inc()
		requestDuration.WithLabelValues(status, c.Request.Method, url).Observe(time.Since(start).Seconds())
	}
}
