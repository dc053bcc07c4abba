package adaptive

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/kbukum/scribe/audio"
	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/metrics"
	"github.com/kbukum/scribe/resilience"
)

const (
	simpleMaxAttempts     = 3
	simpleTemperatureStep = 0.2
	simpleMaxBackoff      = 30 * time.Second
)

// errRepetition marks a candidate rejected for looping so the retry loop
// tries again at a higher temperature.
var errRepetition = stderrors.New("repetition detected")

// SimpleTemperature picks the single-attempt temperature from the audio
// duration: short clips favour accuracy, long ones need more randomness to
// stay out of loops.
func SimpleTemperature(durationSeconds float64) float64 {
	switch {
	case durationSeconds < 30:
		return 0.0
	case durationSeconds < 300:
		return 0.2
	default:
		return 0.3
	}
}

// transcribeSimple enhances the audio and calls the provider at a
// duration-derived temperature, raising it when the text loops. Transient
// errors are retried with exponential backoff.
func (d *Driver) transcribeSimple(ctx context.Context, desc *audio.Descriptor, opts Options) (*Result, error) {
	prepared := d.enhancer.Prepare(ctx, desc.Path, desc)
	defer d.cleanup(prepared)

	maxAttempts := simpleMaxAttempts
	if opts.MaxAttempts > 0 && opts.MaxAttempts < maxAttempts {
		maxAttempts = opts.MaxAttempts
	}

	var (
		temp     = SimpleTemperature(desc.DurationSeconds)
		attempt  int
		best     *Candidate
		warnings = append([]string(nil), prepared.Warnings...)
	)

	_, err := resilience.Retry(ctx, resilience.RetryConfig{
		MaxAttempts:    maxAttempts,
		InitialBackoff: d.cfg.AttemptDelay,
		MaxBackoff:     simpleMaxBackoff,
		BackoffFactor:  2,
		RetryIf: func(err error) bool {
			return stderrors.Is(err, errRepetition) || errors.IsTransient(err)
		},
		OnRetry: func(n int, err error, backoff time.Duration) {
			warnings = append(warnings, fmt.Sprintf("Attempt %d failed: %v", n, err))
			d.log.Warn("Retrying transcription", logger.MergeWithError(
				logger.Fields(logger.FieldAttempt, n, "backoff", backoff.String()), err))
		},
	}, func() (*Candidate, error) {
		attempt++
		cand, err := d.attempt(ctx, prepared.Path, attempt, temp, opts.Language)
		if err != nil {
			if errors.IsTransient(err) {
				d.metrics.RecordAttempt(metrics.ResultTransient)
			}
			return nil, err
		}
		if best == nil || cand.Score > best.Score {
			best = cand
		}
		if cand.HasRepetition && attempt < maxAttempts {
			d.metrics.RecordAttempt(metrics.ResultRetried)
			temp = min(temp+simpleTemperatureStep, 1.0)
			return nil, errRepetition
		}
		d.metrics.RecordAttempt(metrics.ResultAccepted)
		return cand, nil
	})

	switch {
	case err == nil:
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.IsTransient(err):
		warnings = append(warnings, fmt.Sprintf("Attempt %d failed: %v", attempt, err))
	default:
		d.metrics.RecordAttempt(metrics.ResultFatal)
		return nil, err
	}

	if best == nil {
		return d.finishSimple(failed(attempt, warnings, ProviderSimple,
			fmt.Sprintf("all %d transcription attempts failed", attempt)), desc, prepared), nil
	}
	d.metrics.ObserveQuality(best.Score)
	return d.finishSimple(promote(best, attempt, warnings, ProviderSimple), desc, prepared), nil
}

func (d *Driver) finishSimple(res *Result, desc *audio.Descriptor, prepared *audio.Outcome) *Result {
	res.DurationSeconds = desc.DurationSeconds
	res.Conditioning = prepared
	return res
}
