package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/kbukum/scribe/validation"
)

const (
	// MaxUploadBytes is the transcription API's hard upload limit.
	MaxUploadBytes = 25 * 1024 * 1024
	// TargetSizeBytes leaves headroom under MaxUploadBytes when compressing.
	TargetSizeBytes = 20 * 1024 * 1024
	// SilenceDBFS is reported for digital silence instead of -Inf.
	SilenceDBFS = -120.0
)

// DefaultNativeFormats are containers the transcription API accepts as-is.
var DefaultNativeFormats = []string{"mp3", "mp4", "m4a", "wav", "webm", "mpeg", "mpga"}

// Config controls analysis bounds and conditioning policy.
type Config struct {
	MaxUploadBytes int64    `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes" validate:"gt=0"`
	NativeFormats  []string `yaml:"native_formats" mapstructure:"native_formats" validate:"min=1"`

	// ProcessQuietDBFS triggers conditioning for quieter audio.
	ProcessQuietDBFS float64 `yaml:"process_quiet_dbfs" mapstructure:"process_quiet_dbfs" validate:"lt=0"`
	// NormalizeQuietDBFS gates gain adjustment once conditioning runs. It
	// may be stricter than ProcessQuietDBFS but never looser.
	NormalizeQuietDBFS float64 `yaml:"normalize_quiet_dbfs" mapstructure:"normalize_quiet_dbfs" validate:"lt=0"`

	MinDuration time.Duration `yaml:"min_duration" mapstructure:"min_duration" validate:"gte=0"`
	MaxDuration time.Duration `yaml:"max_duration" mapstructure:"max_duration" validate:"gt=0"`

	TargetSizeBytes int64  `yaml:"target_size_bytes" mapstructure:"target_size_bytes" validate:"gt=0"`
	MinBitrateKbps  int    `yaml:"min_bitrate_kbps" mapstructure:"min_bitrate_kbps" validate:"gt=0"`
	MaxBitrateKbps  int    `yaml:"max_bitrate_kbps" mapstructure:"max_bitrate_kbps" validate:"gt=0"`
	SampleRateHz    int    `yaml:"sample_rate_hz" mapstructure:"sample_rate_hz" validate:"gt=0"`
	OutputFormat    string `yaml:"output_format" mapstructure:"output_format" validate:"required"`

	// Workers caps concurrent ffmpeg processes.
	Workers     int           `yaml:"workers" mapstructure:"workers" validate:"gt=0"`
	FFmpegPath  string        `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path" validate:"required"`
	FFprobePath string        `yaml:"ffprobe_path" mapstructure:"ffprobe_path" validate:"required"`
	TempDir     string        `yaml:"temp_dir" mapstructure:"temp_dir"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = MaxUploadBytes
	}
	if len(c.NativeFormats) == 0 {
		c.NativeFormats = append([]string(nil), DefaultNativeFormats...)
	}
	if c.ProcessQuietDBFS == 0 {
		c.ProcessQuietDBFS = -30
	}
	if c.NormalizeQuietDBFS == 0 {
		c.NormalizeQuietDBFS = c.ProcessQuietDBFS
	}
	if c.MinDuration == 0 {
		c.MinDuration = time.Second
	}
	if c.MaxDuration <= 0 {
		c.MaxDuration = 2 * time.Hour
	}
	if c.TargetSizeBytes <= 0 {
		c.TargetSizeBytes = TargetSizeBytes
	}
	if c.MinBitrateKbps <= 0 {
		c.MinBitrateKbps = 64
	}
	if c.MaxBitrateKbps <= 0 {
		c.MaxBitrateKbps = 128
	}
	if c.SampleRateHz <= 0 {
		c.SampleRateHz = 16000
	}
	if c.OutputFormat == "" {
		c.OutputFormat = "mp3"
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.FFprobePath == "" {
		c.FFprobePath = "ffprobe"
	}
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Minute
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}
	if c.NormalizeQuietDBFS > c.ProcessQuietDBFS {
		return fmt.Errorf("audio config: normalize_quiet_dbfs (%.1f) must not exceed process_quiet_dbfs (%.1f)",
			c.NormalizeQuietDBFS, c.ProcessQuietDBFS)
	}
	if c.MinBitrateKbps > c.MaxBitrateKbps {
		return fmt.Errorf("audio config: min_bitrate_kbps must not exceed max_bitrate_kbps")
	}
	if c.MinDuration >= c.MaxDuration {
		return fmt.Errorf("audio config: min_duration must be below max_duration")
	}
	if c.TargetSizeBytes > c.MaxUploadBytes {
		return fmt.Errorf("audio config: target_size_bytes must not exceed max_upload_bytes")
	}
	return nil
}
