package ratelimit

import (
	"fmt"
	"time"

	"github.com/kbukum/scribe/validation"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config configures request limiting.
type Config struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Backend string `yaml:"backend" mapstructure:"backend" validate:"oneof=memory redis"`
	// Limit is the number of requests allowed per key within Window.
	Limit  int           `yaml:"limit" mapstructure:"limit" validate:"gt=0"`
	Window time.Duration `yaml:"window" mapstructure:"window" validate:"gt=0"`
	// Prefix namespaces redis keys.
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.Limit <= 0 {
		c.Limit = 10
	}
	if c.Window <= 0 {
		c.Window = 15 * time.Minute
	}
	if c.Prefix == "" {
		c.Prefix = "scribe:ratelimit:"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("ratelimit config: %w", err)
	}
	return nil
}
