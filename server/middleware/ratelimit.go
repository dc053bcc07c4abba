package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/ratelimit"
)

// KeyFunc extracts the rate limit key from a request.
type KeyFunc func(*gin.Context) string

// IPBasedKey keys requests by client IP.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

// RateLimit returns a Gin middleware that rejects requests the limiter
// refuses with 429. A nil keyFunc keys by client IP.
func RateLimit(limiter ratelimit.Limiter, keyFunc KeyFunc) gin.HandlerFunc {
	if keyFunc == nil {
		keyFunc = IPBasedKey
	}
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), keyFunc(c)) {
			appErr := apperrors.RateLimited()
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		c.Next()
	}
}
