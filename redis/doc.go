// Package redis wraps go-redis with scribe logging and component
// lifecycle support. It backs the distributed rate limiter.
package redis
