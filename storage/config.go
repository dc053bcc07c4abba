package storage

import (
	"fmt"

	"github.com/kbukum/scribe/validation"
)

// Provider constants for supported storage backends.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Default configuration values.
const (
	DefaultBasePath    = "./data/uploads"
	DefaultRegion      = "us-east-1"
	DefaultMaxFileSize = int64(100 * 1024 * 1024)
)

// Config holds storage configuration.
type Config struct {
	// Enabled controls whether object-backed runs are available.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Provider selects the storage backend: "local" or "s3".
	Provider string `yaml:"provider" mapstructure:"provider" validate:"oneof=local s3"`

	// BasePath is the root directory for local storage.
	BasePath string `yaml:"base_path" mapstructure:"base_path" validate:"required_if=Provider local"`

	Bucket    string `yaml:"bucket" mapstructure:"bucket" validate:"required_if=Provider s3"`
	Region    string `yaml:"region" mapstructure:"region" validate:"required_if=Provider s3"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key" validate:"required_with=AccessKey"`
	// ForcePathStyle forces path-style URLs; implied by a custom Endpoint.
	ForcePathStyle bool `yaml:"force_path_style" mapstructure:"force_path_style"`

	// MaxFileSize caps downloads of source audio, in bytes.
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size" validate:"gt=0"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	return nil
}
