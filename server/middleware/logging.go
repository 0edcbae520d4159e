package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/adminkit/logger"
)

// RequestLogger logs every request at a level chosen by status code.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields(
			logger.FieldVerb, c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			logger.FieldStatusCode, status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		)
		if id, ok := c.Get("request_id"); ok {
			fields["request_id"] = id
		}

		switch {
		case status >= 500:
			log.Error("request completed", fields)
		case status >= 400:
			log.Warn("request completed", fields)
		default:
			log.Debug("request completed", fields)
		}
	}
}
