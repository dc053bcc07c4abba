package adaptive

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/scribe/audio"
	"github.com/kbukum/scribe/defect"
	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/metrics"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/transcription"
)

// Deps are the collaborators of a Driver. Provider and Media are required.
type Deps struct {
	Provider transcription.Provider
	Media    audio.Media
	Detector *defect.Detector
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
}

// Driver runs transcriptions. It holds no per-call state and is safe for
// concurrent use across recordings.
type Driver struct {
	cfg      transcription.Config
	audioCfg audio.Config

	provider      transcription.Provider
	characterizer *audio.Characterizer
	conditioner   *audio.Conditioner
	enhancer      *audio.Enhancer
	detector      *defect.Detector
	metrics       *metrics.Metrics
	log           *logger.Logger
}

// NewDriver creates a Driver. Both configs must already have defaults applied.
func NewDriver(cfg transcription.Config, audioCfg audio.Config, deps Deps) (*Driver, error) {
	if deps.Provider == nil {
		return nil, fmt.Errorf("adaptive: provider is required")
	}
	if deps.Media == nil {
		return nil, fmt.Errorf("adaptive: media is required")
	}
	if len(cfg.Temperatures) == 0 {
		return nil, fmt.Errorf("adaptive: temperature schedule is empty")
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	detector := deps.Detector
	if detector == nil {
		detector = defect.NewDefault()
	}
	return &Driver{
		cfg:           cfg,
		audioCfg:      audioCfg,
		provider:      deps.Provider,
		characterizer: audio.NewCharacterizer(deps.Media, log),
		conditioner:   audio.NewConditioner(deps.Media, audioCfg, log, deps.Metrics),
		enhancer:      audio.NewEnhancer(deps.Media, audioCfg, log, deps.Metrics),
		detector:      detector,
		metrics:       deps.Metrics,
		log:           log.WithComponent("adaptive"),
	}, nil
}

// Provider returns the label stored on records produced by this Driver.
func (d *Driver) Provider() string {
	if d.cfg.UseProductionService {
		return ProviderProduction
	}
	return ProviderSimple
}

// Transcribe produces the best transcript it can for the file at path.
//
// Validation failures (unreadable audio, duration out of bounds), a fatal
// provider error and cancellation are returned as errors. Exhausting every
// attempt on transient errors is not an error: the Result has Quality
// QualityFailed and a nil Transcript.
func (d *Driver) Transcribe(ctx context.Context, path string, opts Options) (res *Result, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanDriverTranscribe,
		attribute.String(observability.AttrAudioPath, path),
		attribute.String(observability.AttrProvider, d.Provider()))
	defer func() {
		if res != nil {
			span.SetAttributes(
				attribute.String(observability.AttrQuality, string(res.Quality)),
				attribute.Float64(observability.AttrQualityScore, res.ConfidenceScore),
				attribute.Int(observability.AttrAttempt, res.Attempts))
		}
		observability.EndSpan(span, err)
	}()

	desc, err := d.characterizer.Analyze(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := audio.CheckDuration(desc, d.audioCfg.MinDuration, d.audioCfg.MaxDuration); err != nil {
		return nil, err
	}
	d.log.Info("Audio analyzed", logger.Fields(
		logger.FieldPath, path,
		"duration_seconds", desc.DurationSeconds,
		"sample_rate_hz", desc.SampleRateHz,
		"channels", desc.Channels,
		"loudness_dbfs", desc.LoudnessDBFS,
		"format", desc.Format,
	))

	if !d.cfg.UseProductionService {
		return d.transcribeSimple(ctx, desc, opts)
	}

	conditioned := d.conditioner.Condition(ctx, path, desc)
	defer d.cleanup(conditioned)

	res, err = d.attempts(ctx, conditioned.Path, opts)
	if err != nil {
		return nil, err
	}
	res.DurationSeconds = desc.DurationSeconds
	res.Conditioning = conditioned
	res.Warnings = append(append([]string(nil), conditioned.Warnings...), res.Warnings...)
	return res, nil
}

// schedule returns the temperatures to try for this call.
func (d *Driver) schedule(opts Options) []float64 {
	n := d.cfg.MaxAttempts
	if opts.MaxAttempts > 0 && opts.MaxAttempts < n {
		n = opts.MaxAttempts
	}
	return d.cfg.Temperatures[:min(max(n, 1), len(d.cfg.Temperatures))]
}

// attempts walks the temperature schedule. Attempts are strictly
// sequential: the next one starts only after the previous result has been
// scored.
func (d *Driver) attempts(ctx context.Context, path string, opts Options) (*Result, error) {
	temps := d.schedule(opts)
	var (
		best      *Candidate
		bestScore float64
		warnings  []string
		made      int
	)

	for i, temp := range temps {
		if i > 0 {
			if err := ctx.Err(); err != nil {
				d.log.Info("Transcription cancelled between attempts", logger.Fields(logger.FieldAttempt, i))
				return nil, err
			}
		}
		attempt := i + 1
		made = attempt

		cand, err := d.attempt(ctx, path, attempt, temp, opts.Language)
		if err != nil {
			if ctx.Err() != nil && stderrors.Is(err, ctx.Err()) {
				return nil, err
			}
			if !errors.IsTransient(err) {
				d.metrics.RecordAttempt(metrics.ResultFatal)
				d.log.Error("Transcription failed with a fatal provider error", logger.MergeWithError(
					logger.Fields(logger.FieldAttempt, attempt, logger.FieldTemperature, temp), err))
				return nil, err
			}
			d.metrics.RecordAttempt(metrics.ResultTransient)
			warnings = append(warnings, fmt.Sprintf("Attempt %d (temperature %.1f) failed: %v", attempt, temp, err))
			d.log.Warn("Transcription attempt failed, moving on", logger.MergeWithError(
				logger.Fields(logger.FieldAttempt, attempt, logger.FieldTemperature, temp), err))
			if attempt < len(temps) {
				if err := d.pause(ctx); err != nil {
					return nil, err
				}
			}
			continue
		}

		if cand.HasRepetition {
			warnings = append(warnings, fmt.Sprintf("Attempt %d (temperature %.1f): repetition detected, quality %.2f",
				attempt, temp, cand.Score))
		} else {
			warnings = append(warnings, fmt.Sprintf("Attempt %d (temperature %.1f): quality %.2f", attempt, temp, cand.Score))
		}
		if best == nil || cand.Score > bestScore {
			best, bestScore = cand, cand.Score
		}
		if accepts(cand) {
			d.metrics.RecordAttempt(metrics.ResultAccepted)
			d.log.Info("Transcription accepted", logger.Fields(
				logger.FieldAttempt, attempt, logger.FieldTemperature, temp, logger.FieldScore, cand.Score))
			break
		}
		d.metrics.RecordAttempt(metrics.ResultRetried)
	}

	if best == nil {
		reason := fmt.Sprintf("all %d transcription attempts failed", made)
		d.log.Error("No usable transcription produced", logger.Fields(logger.FieldAttempt, made, "warnings", warnings))
		return failed(made, warnings, ProviderProduction, reason), nil
	}
	d.metrics.ObserveQuality(best.Score)
	return promote(best, made, warnings, ProviderProduction), nil
}

// attempt makes one provider call and scores the text.
func (d *Driver) attempt(ctx context.Context, path string, attempt int, temp float64, language string) (cand *Candidate, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanDriverAttempt,
		attribute.Int(observability.AttrAttempt, attempt),
		attribute.Float64(observability.AttrTemperature, temp))
	defer func() {
		if cand != nil {
			span.SetAttributes(
				attribute.Float64(observability.AttrQualityScore, cand.Score),
				attribute.Bool(observability.AttrHasRepetition, cand.HasRepetition))
		}
		observability.EndSpan(span, err)
	}()

	d.log.Info("Transcription attempt", logger.Fields(logger.FieldAttempt, attempt, logger.FieldTemperature, temp))
	resp, err := d.call(ctx, transcription.Request{
		AudioPath:      path,
		Temperature:    temp,
		Language:       language,
		Model:          d.cfg.Model,
		ResponseFormat: transcription.FormatVerboseJSON,
	})
	if err != nil {
		return nil, err
	}

	verdict := d.detector.Assess(resp.Text)
	lang := resp.Language
	if lang == "" {
		lang = language
	}
	d.log.Info("Transcription attempt scored", logger.Fields(
		logger.FieldAttempt, attempt,
		logger.FieldTemperature, temp,
		logger.FieldScore, verdict.Score,
		"has_repetition", verdict.HasRepetition,
		"phrase", verdict.Phrase,
	))
	return &Candidate{
		Text:          resp.Text,
		Language:      lang,
		Temperature:   temp,
		Score:         verdict.Score,
		HasRepetition: verdict.HasRepetition,
		Attempt:       attempt,
	}, nil
}

type callResult struct {
	resp *transcription.Response
	err  error
}

// call runs the provider request detached from ctx cancellation. If ctx is
// done first the call keeps running to completion and its result is
// discarded; it is still bounded by the provider timeout.
func (d *Driver) call(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	done := make(chan callResult, 1)
	go func() {
		reqCtx := context.WithoutCancel(ctx)
		if d.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(reqCtx, d.cfg.Timeout)
			defer cancel()
		}
		resp, err := d.provider.Transcribe(reqCtx, req)
		done <- callResult{resp: resp, err: transcription.Classify(d.provider.Name(), err)}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Driver) pause(ctx context.Context) error {
	if d.cfg.AttemptDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(d.cfg.AttemptDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (d *Driver) cleanup(o *audio.Outcome) {
	if err := o.Cleanup(); err != nil {
		d.log.Warn("Failed to remove conditioned audio", logger.MergeWithError(
			logger.Fields(logger.FieldPath, o.Path), err))
	}
}
