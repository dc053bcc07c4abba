package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/scribe/observability"
)

// Readiness returns a handler for readiness probes. The service is not
// ready while any component reports down; degraded components still
// accept traffic.
func Readiness(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := checker(c.Request.Context())

		status := "ready"
		httpStatus := http.StatusOK
		if h.Status == observability.HealthStatusDown {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"service":   h.Service,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
