package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/redis"
)

// slidingWindow trims hits at or before the cutoff, then admits the hit
// only when the key still has room. Scores are unix milliseconds.
//
// ARGV: now, cutoff, limit, member, window in milliseconds.
var slidingWindow = goredis.NewScript(`
local key = KEYS[1]
redis.call('ZREMRANGEBYSCORE', key, '-inf', ARGV[2])
if redis.call('ZCARD', key) >= tonumber(ARGV[3]) then
  return 0
end
redis.call('ZADD', key, ARGV[1], ARGV[4])
redis.call('PEXPIRE', key, ARGV[5])
return 1
`)

// Redis is a sliding-window limiter shared by every instance using the
// same redis database.
type Redis struct {
	client *redis.Client
	cfg    Config
	log    *logger.Logger
	now    func() time.Time
}

// NewRedis creates a redis-backed limiter.
func NewRedis(client *redis.Client, cfg Config, log *logger.Logger) *Redis {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	return &Redis{client: client, cfg: cfg, log: log.WithComponent("ratelimit"), now: time.Now}
}

// Allow reports whether key has room in its window. Redis failures fail
// open: the request is allowed and the error logged.
func (r *Redis) Allow(ctx context.Context, key string) bool {
	now := r.now().UnixMilli()
	window := r.cfg.Window.Milliseconds()
	member := fmt.Sprintf("%d-%s", now, uuid.NewString())

	allowed, err := slidingWindow.Run(ctx, r.client.Unwrap(),
		[]string{r.cfg.Prefix + key},
		now, now-window, r.cfg.Limit, member, window,
	).Int()
	if err != nil {
		r.log.Warn("Rate limit check failed, allowing request", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return true
	}
	return allowed == 1
}
