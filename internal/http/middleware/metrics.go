package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
)

// Metrics records request count and latency per matched route.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.IncInflight()
		defer m.DecInflight()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.ObserveAPI(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
