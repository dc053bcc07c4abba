package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Metrics serves a Prometheus exposition handler, normally
// metrics.Metrics.Handler, on a Gin route.
func Metrics(h http.Handler) gin.HandlerFunc {
	return gin.WrapH(h)
}
