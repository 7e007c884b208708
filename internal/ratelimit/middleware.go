package ratelimit

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// KeyFunc derives the rate limit key for a request
type KeyFunc func(c *gin.Context) string

// ByClientIP keys requests on the caller address
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByUserID keys requests on the authenticated user, falling back to the client address
func ByUserID(c *gin.Context) string {
	if userID, ok := c.Get("user_id"); ok {
		return fmt.Sprintf("user:%v", userID)
	}
	return ByClientIP(c)
}

// Middleware rejects requests over budget with 429
func Middleware(limiter Limiter, keyFunc KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), keyFunc(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Rate limit exceeded",
				"code":    "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
