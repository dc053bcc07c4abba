package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/scribe/logger"
)

// probePaths are polled by orchestrators and scrapers and are not logged.
var probePaths = map[string]bool{
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
	"/metrics": true,
}

const (
	recordingsPrefix = "/v1/recordings/"
	slowRequest      = 30 * time.Second
)

// RequestLogger returns middleware that logs every request with method,
// path, status, response size and duration. Requests under
// /v1/recordings/{id} also carry the recording id. Probe paths are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if probePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := recordResponse(w)
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			fields := logger.Fields(
				"method", r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatus, rec.Status(),
				"bytes", rec.bytes,
				logger.FieldDuration, duration.Milliseconds(),
			)
			if id := recordingFromPath(r.URL.Path); id != "" {
				fields[logger.FieldRecordingID] = id
			}
			if duration > slowRequest {
				fields["slow"] = true
			}
			logByStatus(log.WithContext(r.Context()), fields, rec.Status())
		})
	}
}

// recordingFromPath returns the {id} segment of /v1/recordings/{id}/...
func recordingFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, recordingsPrefix)
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	return id
}

// logByStatus logs request fields at the level matching the status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
