package audio

import (
	"context"
	"os"
	"strings"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
)

// Characterizer measures audio files. It never modifies its input and is
// safe to call repeatedly on the same file.
type Characterizer struct {
	media Media
	log   *logger.Logger
}

// NewCharacterizer creates a Characterizer backed by media.
func NewCharacterizer(media Media, log *logger.Logger) *Characterizer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Characterizer{media: media, log: log.WithComponent("audio.characterizer")}
}

// Analyze returns a fresh Descriptor for the file at path. A missing file
// or a file without an audio stream yields an UNREADABLE_AUDIO error.
func (c *Characterizer) Analyze(ctx context.Context, path string) (*Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.UnreadableAudio(path, err)
	}
	if info.IsDir() {
		return nil, errors.UnreadableAudio(path, nil)
	}
	format := formatFromPath(path)

	if format == "wav" {
		if desc, ok := probeWAV(path, info.Size()); ok {
			return desc, nil
		}
	}

	probe, err := c.media.Probe(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.UnreadableAudio(path, err)
	}
	if !probe.HasAudio {
		return nil, errors.UnreadableAudio(path, nil)
	}
	if format == "" {
		format, _, _ = strings.Cut(probe.Format, ",")
	}

	desc := &Descriptor{
		Path:            path,
		DurationSeconds: probe.DurationSeconds,
		SampleRateHz:    probe.SampleRateHz,
		Channels:        max(probe.Channels, 1),
		Format:          format,
		SizeBytes:       info.Size(),
	}

	level, err := c.media.Level(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Warn("Loudness measurement failed, continuing without it", logger.MergeWithError(
			logger.Fields(logger.FieldPath, path), err))
		return desc, nil
	}
	desc.LoudnessDBFS = level.MeanDBFS
	desc.PeakDBFS = level.PeakDBFS
	desc.LoudnessMeasured = true

	c.log.Debug("Audio analyzed", logger.Fields(
		logger.FieldPath, path,
		"duration_seconds", desc.DurationSeconds,
		"channels", desc.Channels,
		"sample_rate_hz", desc.SampleRateHz,
		"loudness_dbfs", desc.LoudnessDBFS,
	))
	return desc, nil
}
