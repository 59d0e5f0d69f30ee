package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/umorjyoti/trip-sub006/internal/metrics"
)

// MetricsMiddleware times every request into collector, labelled by route pattern.
func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		collector.Observe(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
