package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/scribe/validation"
)

// Config configures the inbox watcher.
type Config struct {
	Dir string `yaml:"dir" mapstructure:"dir" validate:"required"`
	// Extensions are the accepted file extensions, matched case-insensitively.
	Extensions []string `yaml:"extensions" mapstructure:"extensions" validate:"min=1"`
	// Settle is how long a file must stay unchanged before it is processed.
	Settle      time.Duration `yaml:"settle" mapstructure:"settle" validate:"gt=0"`
	Concurrency int           `yaml:"concurrency" mapstructure:"concurrency" validate:"gt=0"`
	// ScanExisting processes files already in Dir at start.
	ScanExisting bool `yaml:"scan_existing" mapstructure:"scan_existing"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".wav", ".mp3", ".m4a", ".webm", ".ogg", ".flac", ".mp4"}
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	if c.Settle <= 0 {
		c.Settle = 2 * time.Second
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 2
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	return nil
}
