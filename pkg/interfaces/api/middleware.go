package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
	"github.com/vsinha/blendtrack/pkg/infrastructure/metrics"
)

// LoggerMiddleware attaches a request scoped logger to the request context
// and logs each completed request
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		reqLog := log.With("request_id", requestID)
		c.Request = c.Request.WithContext(logger.ContextWithLogger(c.Request.Context(), reqLog))

		c.Next()

		reqLog.Debug("Request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// MetricsMiddleware records request counts and latency by route template
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
