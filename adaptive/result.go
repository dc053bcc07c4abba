package adaptive

import (
	"github.com/kbukum/scribe/audio"
)

// Quality grades a finished transcription.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
	QualityFailed    Quality = "failed"
)

// Provider labels stored on records.
const (
	ProviderProduction = "whisper-production"
	ProviderSimple     = "whisper"
)

const (
	acceptScore    = 0.8
	excellentScore = 0.9
	goodScore      = 0.7
	fairScore      = 0.5
)

// Options are per-call parameters. Zero values fall back to configuration.
type Options struct {
	// Language is an optional ISO-639-1 hint; empty lets the provider detect.
	Language string
	// MaxAttempts caps provider calls for this invocation, for example by
	// subscription tier. It can only lower the configured schedule.
	MaxAttempts int
}

// Candidate is the outcome of one successful attempt.
type Candidate struct {
	Text          string  `json:"text"`
	Language      string  `json:"language,omitempty"`
	Temperature   float64 `json:"temperature"`
	Score         float64 `json:"quality_score"`
	HasRepetition bool    `json:"has_repetition"`
	Attempt       int     `json:"attempt"`
}

// Result is the output of one transcription call. Transcript is nil
// exactly when Quality is QualityFailed.
type Result struct {
	Transcript      *string  `json:"transcript"`
	Language        string   `json:"language,omitempty"`
	Quality         Quality  `json:"quality"`
	ConfidenceScore float64  `json:"confidence_score"`
	HasRepetition   bool     `json:"has_repetition"`
	Attempts        int      `json:"attempts"`
	TemperatureUsed float64  `json:"temperature_used"`
	Warnings        []string `json:"warnings,omitempty"`
	Error           string   `json:"error,omitempty"`
	Provider        string   `json:"provider"`
	// DurationSeconds is the measured length of the source audio.
	DurationSeconds float64        `json:"duration_seconds"`
	Conditioning    *audio.Outcome `json:"conditioning,omitempty"`
}

// Failed reports whether no transcript was produced.
func (r *Result) Failed() bool {
	return r == nil || r.Transcript == nil
}

// Text returns the transcript, or "" for a failed result.
func (r *Result) Text() string {
	if r.Failed() {
		return ""
	}
	return *r.Transcript
}

// accepts reports whether a candidate is good enough to stop attempting.
func accepts(c *Candidate) bool {
	return c.Score >= acceptScore && !c.HasRepetition
}

// grade maps the best candidate onto a Quality and an optional warning.
func grade(score float64, repetition bool) (Quality, string) {
	switch {
	case score >= excellentScore && !repetition:
		return QualityExcellent, ""
	case score >= goodScore && !repetition:
		return QualityGood, ""
	case score >= fairScore:
		return QualityFair, "Transcription quality is fair - manual review recommended"
	default:
		return QualityPoor, "Transcription quality is poor - audio may need re-recording"
	}
}

// promote builds a successful Result from the best candidate.
func promote(best *Candidate, attempts int, warnings []string, provider string) *Result {
	quality, warning := grade(best.Score, best.HasRepetition)
	if warning != "" {
		warnings = append(warnings, warning)
	}
	text := best.Text
	return &Result{
		Transcript:      &text,
		Language:        best.Language,
		Quality:         quality,
		ConfidenceScore: best.Score,
		HasRepetition:   best.HasRepetition,
		Attempts:        attempts,
		TemperatureUsed: best.Temperature,
		Warnings:        warnings,
		Provider:        provider,
	}
}

// failed builds the Result for a call that produced no usable candidate.
func failed(attempts int, warnings []string, provider, reason string) *Result {
	return &Result{
		Quality:  QualityFailed,
		Attempts: attempts,
		Warnings: warnings,
		Error:    reason,
		Provider: provider,
	}
}
