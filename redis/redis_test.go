package redis_test

import (
	"context"
	"testing"

	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/redis"
	redistest "github.com/kbukum/scribe/redis/testutil"
)

func TestConfigDefaults(t *testing.T) {
	var cfg redis.Config
	cfg.ApplyDefaults()

	if cfg.Addr != "localhost:6379" || cfg.PoolSize != 10 || cfg.MaxRetries != 3 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := redis.Config{Enabled: true}
	cfg.ApplyDefaults()
	cfg.Addr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for enabled redis without addr")
	}
}

func TestClientHealth(t *testing.T) {
	mini, client := redistest.Start(t)
	ctx := context.Background()

	if h := client.CheckHealth(ctx); h.Status != observability.HealthStatusUp {
		t.Fatalf("status = %s, want up (%s)", h.Status, h.Message)
	}

	mini.Close()
	if h := client.CheckHealth(ctx); h.Status != observability.HealthStatusDown {
		t.Errorf("status after server stop = %s, want down", h.Status)
	}
}

func TestComponentLifecycle(t *testing.T) {
	mini, _ := redistest.Start(t)
	ctx := context.Background()

	c := redis.NewComponent(redis.Config{Enabled: true, Addr: mini.Addr()}, nil)
	if h := c.CheckHealth(ctx); h.Status != observability.HealthStatusDown {
		t.Errorf("status before start = %s, want down", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.CheckHealth(ctx); h.Status != observability.HealthStatusUp {
		t.Errorf("status = %s, want up", h.Status)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := c.Client().Close(); err != nil {
		t.Errorf("second Close should be a no-op: %v", err)
	}
}

func TestComponentStartFailure(t *testing.T) {
	mini, _ := redistest.Start(t)
	addr := mini.Addr()
	mini.Close()

	c := redis.NewComponent(redis.Config{Enabled: true, Addr: addr, MaxRetries: 1}, nil)
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected start error against a stopped server")
	}
}
