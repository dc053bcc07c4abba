// Package server is the HTTP surface of scribe: a Gin engine served over
// HTTP/1.1 and h2c with a shared middleware stack.
//
// # Routes
//
//	POST  /v1/recordings/:id/transcription  run the pipeline (audio_path or object_key)
//	GET   /v1/recordings/:id/transcription  stored transcription
//	PATCH /v1/recordings/:id/transcription  manual text correction
//	GET   /v1/recordings/:id/summary        stored summary
//	POST  /v1/analyze                       preview without transcribing
//
// Errors are rendered from apperrors.AppError: audio validation failures
// answer 422, exhausted attempts 503, a provider rejection 502 and a
// refused rate limit 429. Operational routes (/healthz, /livez, /readyz,
// /metrics, /version) live in server/endpoint.
package server
