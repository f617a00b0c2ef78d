package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/pricecheck/metrics"
)

// MetricsRecorder counts requests by route template. Scrapes of /metrics
// itself are skipped.
func MetricsRecorder() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "/metrics" {
			return
		}
		metrics.RecordRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}
