package transcription

import (
	"fmt"
	"time"

	"github.com/kbukum/scribe/security"
	"github.com/kbukum/scribe/validation"
)

const (
	defaultProvider    = "openai"
	defaultModel       = "whisper-1"
	defaultTimeout     = 5 * time.Minute
	defaultMaxAttempts = 5
)

// DefaultTemperatures is the attempt schedule: balanced first, then the
// extremes. Pure escalation does not escape repetition loops reliably.
var DefaultTemperatures = []float64{0.2, 0.0, 0.4, 0.3, 0.6}

// Config selects and configures the transcription backend and the attempt
// schedule used by the driver.
type Config struct {
	Provider string        `yaml:"provider" mapstructure:"provider" validate:"required"`
	Model    string        `yaml:"model" mapstructure:"model"`
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// APIKeyHeader sends APIKey raw in this header instead of as a bearer token.
	APIKeyHeader string `yaml:"api_key_header" mapstructure:"api_key_header"`

	// TLS is used for https base URLs, typically a self-hosted sidecar.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// UseProductionService selects the multi-attempt driver. When false a
	// single attempt runs with a duration-derived temperature.
	UseProductionService bool `yaml:"use_production_service" mapstructure:"use_production_service"`
	// MaxAttempts is capped by the length of Temperatures.
	MaxAttempts  int           `yaml:"max_attempts" mapstructure:"max_attempts" validate:"min=1"`
	Temperatures []float64     `yaml:"temperatures" mapstructure:"temperatures" validate:"min=1,dive,gte=0,lte=1"`
	AttemptDelay time.Duration `yaml:"attempt_delay" mapstructure:"attempt_delay" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = defaultProvider
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if len(c.Temperatures) == 0 {
		c.Temperatures = append([]float64(nil), DefaultTemperatures...)
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("transcription config: %w", err)
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("transcription config: %w", err)
	}
	return nil
}
