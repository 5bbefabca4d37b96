package web

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"moviefinder/internal/logging"
)

// requestID tags each request with an id taken from X-Request-ID or freshly
// generated, and stores it on the request context for logging.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []logging.Attr{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, logging.String("errors", c.Errors.String()))
		}
		switch {
		case status >= 500:
			logger.WarnContext(c.Request.Context(), "http request", logging.Args(attrs...)...)
		case c.Request.URL.Path == "/healthz":
			logger.DebugContext(c.Request.Context(), "http request", logging.Args(attrs...)...)
		default:
			logger.InfoContext(c.Request.Context(), "http request", logging.Args(attrs...)...)
		}
	}
}
