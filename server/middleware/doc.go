// Package middleware holds the HTTP middleware of the scribe server.
//
// Recovery, RequestID, CORS, BodySizeLimit and RequestLogger are plain
// net/http middleware chained around the root handler. RateLimit is a Gin
// middleware applied to the transcription routes only.
package middleware
