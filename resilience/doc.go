// Package resilience provides the fault-tolerance primitives scribe uses
// around its external dependencies.
//
//   - Retry: exponential backoff for database connects and LLM calls
//   - CircuitBreaker: fails fast when an HTTP dependency keeps failing
//   - RateLimiter: token bucket, one per key in the in-memory limiter
//   - Bulkhead: caps concurrent ffmpeg work so conditioning cannot starve
//     request handling
//
// Transcription attempts are never retried here. The adaptive driver owns
// that loop.
package resilience
