package middleware

import (
	"strconv"
	"time"

	"marketplace-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records HTTP metrics for each request, labelled by route pattern.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		done := metrics.RequestStarted()
		defer done()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
