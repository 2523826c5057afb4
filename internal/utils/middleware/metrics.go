package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/videoflow/server/internal/utils/metrics"
)

// Metrics returns a middleware recording request counts and latency. The
// route template is used as the path label to keep cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
