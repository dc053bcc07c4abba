package audio

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbukum/scribe/errors"
)

// Descriptor is the measured shape of one audio file. It is derived fresh
// from the file on every Analyze call and never cached.
type Descriptor struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
	SampleRateHz    int     `json:"sample_rate_hz"`
	Channels        int     `json:"channel_count"`
	// LoudnessDBFS is the mean (RMS) level; 0 is full scale.
	LoudnessDBFS float64 `json:"loudness_dbfs"`
	// PeakDBFS is the maximum sample level.
	PeakDBFS float64 `json:"peak_dbfs"`
	// LoudnessMeasured is false when the level could not be read. The
	// conditioner then never treats the file as quiet.
	LoudnessMeasured bool   `json:"loudness_measured"`
	Format           string `json:"source_format"`
	SizeBytes        int64  `json:"size_bytes"`
}

// Duration returns the duration as a time.Duration.
func (d *Descriptor) Duration() time.Duration {
	return time.Duration(d.DurationSeconds * float64(time.Second))
}

// CheckDuration rejects audio outside [minimum, maximum].
func CheckDuration(d *Descriptor, minimum, maximum time.Duration) error {
	dur := d.Duration()
	if dur < minimum {
		return errors.AudioTooShort(dur, minimum)
	}
	if maximum > 0 && dur > maximum {
		return errors.AudioTooLong(dur, maximum)
	}
	return nil
}

// formatFromPath returns the lowercase extension without the dot.
func formatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// String renders a descriptor for logs.
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s %.1fs %dHz %dch %.1fdBFS %dB", d.Format, d.DurationSeconds, d.SampleRateHz, d.Channels, d.LoudnessDBFS, d.SizeBytes)
}
