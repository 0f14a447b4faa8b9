package middleware

import (
	"net/http"

	"github.com/facturo/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit returns a middleware enforcing a fixed-window request limit per
// client IP. Lookup failures fail open so a Redis outage does not take the
// API down with it.
func RateLimit(limiter cache.RateLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			if logger != nil {
				logger.Error("Rate limiter lookup failed",
					zap.String("client_ip", c.ClientIP()),
					zap.Error(err))
			}
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "Too many requests, slow down",
				},
			})
			return
		}

		c.Next()
	}
}
