package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClaimsKey is the Gin context key holding validated token claims.
const ClaimsKey = "claims"

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator func(token string) (map[string]any, error)

// BearerAuth rejects requests without a valid bearer token. Failures use
// the API's {"message": ...} error shape.
func BearerAuth(validate TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header required",
			})
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization header format",
			})
			return
		}

		claims, err := validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid token",
			})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
