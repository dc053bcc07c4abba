package audio

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/metrics"
)

// Step is one transformation applied while conditioning.
type Step string

const (
	StepDownmix   Step = "downmix"
	StepResample  Step = "resample"
	StepDenoise   Step = "denoise"
	StepNormalize Step = "normalize"
	StepCompress  Step = "compress"
	StepReencode  Step = "re-encode"
)

// peakHeadroomDB is the level the loudest sample is raised to when normalizing.
const peakHeadroomDB = -0.1

// Decision explains whether a file needs conditioning.
type Decision struct {
	Process   bool     `json:"would_process"`
	Compress  bool     `json:"compress"`
	Transcode bool     `json:"transcode"`
	Quiet     bool     `json:"quiet"`
	Reasons   []string `json:"reasons,omitempty"`
}

// Outcome is the result of conditioning. Path is the file to transcribe;
// when WasModified it is a temporary file owned by the caller, released
// with Cleanup.
type Outcome struct {
	WasModified     bool     `json:"was_modified"`
	Path            string   `json:"path"`
	Steps           []Step   `json:"steps_applied,omitempty"`
	OutputSizeBytes int64    `json:"output_size_bytes"`
	BitrateKbps     int      `json:"bitrate_kbps,omitempty"`
	Reasons         []string `json:"reasons,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

// Cleanup removes the conditioned copy. It never touches the original.
func (o *Outcome) Cleanup() error {
	if o == nil || !o.WasModified || o.Path == "" {
		return nil
	}
	if err := os.Remove(o.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func unmodified(path string, desc *Descriptor) *Outcome {
	return &Outcome{Path: path, OutputSizeBytes: desc.SizeBytes}
}

// Conditioner applies the minimal preprocessing a file needs before
// transcription.
type Conditioner struct {
	media   Media
	cfg     Config
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewConditioner creates a Conditioner. cfg must already have defaults applied.
func NewConditioner(media Media, cfg Config, log *logger.Logger, m *metrics.Metrics) *Conditioner {
	if log == nil {
		log = logger.NewNop()
	}
	return &Conditioner{media: media, cfg: cfg, log: log.WithComponent("audio.conditioner"), metrics: m}
}

// Decide evaluates the conditioning policy without touching the file.
func (c *Conditioner) Decide(desc *Descriptor) Decision {
	var d Decision
	if desc.SizeBytes > c.cfg.MaxUploadBytes {
		d.Compress = true
		d.Reasons = append(d.Reasons, fmt.Sprintf("size %d bytes exceeds upload limit %d", desc.SizeBytes, c.cfg.MaxUploadBytes))
	}
	if !slices.Contains(c.cfg.NativeFormats, desc.Format) {
		d.Transcode = true
		d.Reasons = append(d.Reasons, fmt.Sprintf("format %q is not natively supported", desc.Format))
	}
	if desc.LoudnessMeasured && desc.LoudnessDBFS < c.cfg.ProcessQuietDBFS {
		d.Quiet = true
		d.Reasons = append(d.Reasons, fmt.Sprintf("loudness %.1f dBFS below %.1f", desc.LoudnessDBFS, c.cfg.ProcessQuietDBFS))
	}
	d.Process = d.Compress || d.Transcode || d.Quiet
	return d
}

// TargetBitrateKbps returns the bitrate that brings a file of the given
// duration to the target size, clamped to the configured range.
func (c *Conditioner) TargetBitrateKbps(durationSeconds float64) int {
	if durationSeconds <= 0 {
		return c.cfg.MinBitrateKbps
	}
	kbps := int(float64(c.cfg.TargetSizeBytes*8) / durationSeconds / 1000)
	return min(c.cfg.MaxBitrateKbps, max(c.cfg.MinBitrateKbps, kbps))
}

// Condition returns the file to transcribe. It never fails: when
// processing is unnecessary or breaks, the original path is returned and
// any failure is recorded in Warnings.
func (c *Conditioner) Condition(ctx context.Context, path string, desc *Descriptor) *Outcome {
	decision := c.Decide(desc)
	if !decision.Process {
		c.metrics.RecordConditioning(metrics.OutcomeSkipped)
		c.log.Debug("Audio needs no conditioning", logger.Fields(logger.FieldPath, path))
		return unmodified(path, desc)
	}

	opts, steps := c.plan(desc, decision)
	out, err := c.transform(ctx, path, opts)
	if err != nil {
		c.metrics.RecordConditioning(metrics.OutcomeFallback)
		cerr := errors.ConditioningFailed("transcode", err)
		c.log.Warn("Conditioning failed, using original file", logger.MergeWithError(
			logger.Fields(logger.FieldPath, path, "reasons", decision.Reasons), cerr))
		o := unmodified(path, desc)
		o.Reasons = decision.Reasons
		o.Warnings = []string{cerr.Error()}
		return o
	}

	c.metrics.RecordConditioning(metrics.OutcomeProcessed)
	out.Steps = steps
	out.BitrateKbps = opts.BitrateKbps
	out.Reasons = decision.Reasons
	c.log.Info("Audio conditioned", logger.Fields(
		logger.FieldPath, path,
		"steps", steps,
		"bitrate_kbps", opts.BitrateKbps,
		"size_bytes", desc.SizeBytes,
		"output_size_bytes", out.OutputSizeBytes,
	))
	return out
}

func (c *Conditioner) plan(desc *Descriptor, d Decision) (TransformOptions, []Step) {
	opts := TransformOptions{
		SampleRateHz: c.cfg.SampleRateHz,
		Format:       c.cfg.OutputFormat,
		BitrateKbps:  c.cfg.MaxBitrateKbps,
	}
	var steps []Step

	if desc.Channels > 1 {
		opts.Mono = true
		steps = append(steps, StepDownmix)
	}
	if desc.SampleRateHz != c.cfg.SampleRateHz {
		steps = append(steps, StepResample)
	}
	if desc.LoudnessMeasured && desc.PeakDBFS > SilenceDBFS && desc.LoudnessDBFS < c.cfg.NormalizeQuietDBFS {
		opts.GainDB = peakHeadroomDB - desc.PeakDBFS
		steps = append(steps, StepNormalize)
	}
	if d.Compress {
		opts.BitrateKbps = c.TargetBitrateKbps(desc.DurationSeconds)
	}
	return opts, append(steps, StepReencode)
}

// transform writes a conditioned temp file and stats it. The temp file is
// removed on failure.
func (c *Conditioner) transform(ctx context.Context, path string, opts TransformOptions) (*Outcome, error) {
	tmp, err := os.CreateTemp(c.cfg.TempDir, "scribe-*."+opts.Format)
	if err != nil {
		return nil, err
	}
	out := tmp.Name()
	_ = tmp.Close()

	if err := c.media.Transform(ctx, path, out, opts); err != nil {
		_ = os.Remove(out)
		return nil, err
	}
	info, err := os.Stat(out)
	if err != nil {
		_ = os.Remove(out)
		return nil, err
	}
	if info.Size() == 0 {
		_ = os.Remove(out)
		return nil, fmt.Errorf("conditioned output is empty")
	}
	return &Outcome{WasModified: true, Path: out, OutputSizeBytes: info.Size()}, nil
}
