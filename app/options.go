package app

import (
	"time"

	"github.com/kbukum/scribe/audio"
	"github.com/kbukum/scribe/llm"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/metrics"
	"github.com/kbukum/scribe/transcription"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	metrics         *metrics.Metrics
	media           audio.Media
	provider        transcription.Provider
	completer       llm.Completer
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithMetrics sets the collectors instead of a fresh registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *appOptions) {
		o.metrics = m
	}
}

// WithMedia replaces the ffmpeg media backend.
func WithMedia(m audio.Media) Option {
	return func(o *appOptions) {
		o.media = m
	}
}

// WithProvider replaces the configured transcription provider.
func WithProvider(p transcription.Provider) Option {
	return func(o *appOptions) {
		o.provider = p
	}
}

// WithCompleter replaces the configured LLM used for summaries.
func WithCompleter(c llm.Completer) Option {
	return func(o *appOptions) {
		o.completer = c
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}
