package summary

import (
	"time"

	"github.com/kbukum/scribe/validation"
)

// Config controls summary enrichment.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Model overrides the llm section's model for summaries.
	Model string `yaml:"model" mapstructure:"model"`
	// Timeout bounds one enrichment including the store write.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	// Instructions are appended to every prompt as additional guidance.
	Instructions string `yaml:"instructions" mapstructure:"instructions"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 90 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Struct(c)
}
