package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/scribe/observability"
)

// HealthChecker reports the aggregated health of the service.
type HealthChecker func(ctx context.Context) *observability.ServiceHealth

// Health returns a handler serving the aggregated health. Any component
// that is down turns the response into a 503.
func Health(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := checker(c.Request.Context())
		status := http.StatusOK
		if h.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, h)
	}
}
