package audio

import (
	"context"
	"os"
	"strings"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/metrics"
)

// DefaultEnhanceFilters removes rumble below 80 Hz and hiss above 8 kHz,
// then applies adaptive noise reduction.
var DefaultEnhanceFilters = []string{"highpass=f=80", "lowpass=f=8000", "afftdn=nf=-20"}

// dynamicRangeFilter lifts quiet passages and tames loud ones.
const dynamicRangeFilter = "acompressor=threshold=-20dB:ratio=4:attack=5:release=50"

// Basic normalization window: outside it the level is corrected.
const (
	basicQuietDBFS = -20.0
	basicLoudDBFS  = -3.0
)

// Enhancer prepares audio for the single-attempt transcription mode. It
// always processes: denoise, normalize and compress dynamics. When that
// fails it falls back to a basic normalize-and-reencode pass, and then to
// the original file.
type Enhancer struct {
	media   Media
	cfg     Config
	filters []string
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewEnhancer creates an Enhancer. cfg must already have defaults applied.
func NewEnhancer(media Media, cfg Config, log *logger.Logger, m *metrics.Metrics) *Enhancer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Enhancer{
		media:   media,
		cfg:     cfg,
		filters: DefaultEnhanceFilters,
		log:     log.WithComponent("audio.enhancer"),
		metrics: m,
	}
}

// Prepare returns the file to transcribe. Like Conditioner.Condition it
// never fails.
func (e *Enhancer) Prepare(ctx context.Context, path string, desc *Descriptor) *Outcome {
	var warnings []string

	out, err := e.enhance(ctx, path)
	if err == nil {
		e.metrics.RecordConditioning(metrics.OutcomeEnhanced)
		return out
	}
	warnings = append(warnings, errors.ConditioningFailed("enhance", err).Error())
	e.log.Warn("Enhancement failed, trying basic preprocessing", logger.MergeWithError(
		logger.Fields(logger.FieldPath, path), err))

	out, err = e.basic(ctx, path, desc)
	if err == nil {
		e.metrics.RecordConditioning(metrics.OutcomeProcessed)
		out.Warnings = warnings
		return out
	}
	warnings = append(warnings, errors.ConditioningFailed("basic", err).Error())
	e.log.Warn("Basic preprocessing failed, using original file", logger.MergeWithError(
		logger.Fields(logger.FieldPath, path), err))

	e.metrics.RecordConditioning(metrics.OutcomeFallback)
	o := unmodified(path, desc)
	o.Warnings = warnings
	return o
}

// enhance denoises into an intermediate WAV, measures it, then normalizes
// and compresses into the output format.
func (e *Enhancer) enhance(ctx context.Context, path string) (*Outcome, error) {
	c := &Conditioner{media: e.media, cfg: e.cfg}

	denoised, err := c.transform(ctx, path, TransformOptions{
		Mono:         true,
		SampleRateHz: e.cfg.SampleRateHz,
		Filters:      e.filters,
		Format:       "wav",
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(denoised.Path) }()

	level, err := e.media.Level(ctx, denoised.Path)
	if err != nil {
		return nil, err
	}

	opts := TransformOptions{
		SampleRateHz: e.cfg.SampleRateHz,
		Filters:      []string{dynamicRangeFilter},
		BitrateKbps:  e.cfg.MaxBitrateKbps,
		Format:       e.cfg.OutputFormat,
	}
	steps := []Step{StepDownmix, StepResample, StepDenoise}
	if level.PeakDBFS > SilenceDBFS {
		opts.GainDB = peakHeadroomDB - level.PeakDBFS
		steps = append(steps, StepNormalize)
	}
	steps = append(steps, StepCompress, StepReencode)

	out, err := c.transform(ctx, denoised.Path, opts)
	if err != nil {
		return nil, err
	}
	out.Steps = steps
	out.BitrateKbps = opts.BitrateKbps
	out.Reasons = []string{"enhancement chain: " + strings.Join(e.filters, ",")}
	return out, nil
}

// basic re-encodes to mono 16 kHz, normalizing audio that is too quiet or
// too hot.
func (e *Enhancer) basic(ctx context.Context, path string, desc *Descriptor) (*Outcome, error) {
	c := &Conditioner{media: e.media, cfg: e.cfg}
	opts := TransformOptions{
		Mono:         true,
		SampleRateHz: e.cfg.SampleRateHz,
		BitrateKbps:  e.cfg.MaxBitrateKbps,
		Format:       e.cfg.OutputFormat,
	}
	var steps []Step
	if desc.Channels > 1 {
		steps = append(steps, StepDownmix)
	}
	if desc.SampleRateHz != e.cfg.SampleRateHz {
		steps = append(steps, StepResample)
	}
	if desc.LoudnessMeasured && desc.PeakDBFS > SilenceDBFS && (desc.LoudnessDBFS < basicQuietDBFS || desc.LoudnessDBFS > basicLoudDBFS) {
		opts.GainDB = peakHeadroomDB - desc.PeakDBFS
		steps = append(steps, StepNormalize)
	}

	out, err := c.transform(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	out.Steps = append(steps, StepReencode)
	out.BitrateKbps = opts.BitrateKbps
	return out, nil
}
