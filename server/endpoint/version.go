package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/scribe/version"
)

// Version reports the build and the User-Agent scribe presents to the
// transcription and LLM services.
func Version(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    serviceName,
			"user_agent": version.UserAgent(),
			"build":      version.GetVersionInfo(),
		})
	}
}
