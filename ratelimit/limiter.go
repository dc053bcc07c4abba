package ratelimit

import (
	"context"
	"fmt"

	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/redis"
)

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Unlimited allows everything. It stands in when limiting is disabled.
type Unlimited struct{}

// Allow always returns true.
func (Unlimited) Allow(context.Context, string) bool { return true }

// New builds the limiter selected by cfg.Backend. The redis backend
// requires a client.
func New(cfg Config, client *redis.Client, log *logger.Logger) (Limiter, error) {
	if !cfg.Enabled {
		return Unlimited{}, nil
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("ratelimit: redis backend requires an enabled redis client")
		}
		return NewRedis(client, cfg, log), nil
	default:
		return NewMemory(cfg), nil
	}
}
