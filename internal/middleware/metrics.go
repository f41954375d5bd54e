package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"transit/internal/observability"
)

// MetricsMiddleware records request counts and latency per route. The
// route template is used rather than the raw path so IDs do not blow up
// label cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
