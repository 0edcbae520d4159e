package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/adminkit/logger"
)

// Recovery recovers from handler panics, logs the stack and answers 500
// with the API's message envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered", logger.Fields(
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					logger.FieldPath, c.Request.URL.Path,
					logger.FieldVerb, c.Request.Method,
				))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
