package pipeline

import "github.com/kbukum/scribe/validation"

// Config controls storage-backed and batch runs.
type Config struct {
	// TempDir receives downloaded objects. Empty uses the OS default.
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
	// MaxObjectBytes rejects larger storage objects before transcription.
	MaxObjectBytes int64 `yaml:"max_object_bytes" mapstructure:"max_object_bytes" validate:"gte=0"`
	// Concurrency bounds RunBatch when the caller passes 0.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency" validate:"gt=0"`
	// EstimateFactor scales audio duration into the preview's processing
	// time estimate.
	EstimateFactor float64 `yaml:"estimate_factor" mapstructure:"estimate_factor" validate:"gt=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.MaxObjectBytes == 0 {
		c.MaxObjectBytes = 500 << 20
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 2
	}
	if c.EstimateFactor <= 0 {
		c.EstimateFactor = 0.25
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Struct(c)
}
