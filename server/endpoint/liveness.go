package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Liveness answers as long as the process can serve HTTP, with the time
// the server started.
func Liveness(serviceName string, started time.Time) gin.HandlerFunc {
	startedAt := started.UTC().Format(time.RFC3339)
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "alive",
			"service":        serviceName,
			"started_at":     startedAt,
			"uptime_seconds": int64(time.Since(started).Seconds()),
		})
	}
}
