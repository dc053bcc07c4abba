// Package ratelimit provides the Limiter capability used by the HTTP
// middleware: Allow(ctx, key) reports whether one more request for key
// fits in a sliding window.
//
// The memory backend keeps per-process state. The redis backend keeps
// the window in a sorted set per key so several scribe instances share
// one budget.
package ratelimit
