// Package errors provides the structured error type used across scribe.
//
// Every error that crosses a package boundary is an *AppError carrying a
// machine-readable code, an HTTP status, and a retryable flag. The audio and
// transcription codes form the pipeline's error taxonomy so callers can
// tell bad input from a transient outage from a total transcription failure.
package errors
