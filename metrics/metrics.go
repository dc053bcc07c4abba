// Package metrics holds the Prometheus collectors for the transcription
// pipeline. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for scribe_pipeline_runs_total.
const (
	OutcomeCreated   = "created"
	OutcomeExisting  = "existing"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
	OutcomeFatal     = "fatal"
	OutcomeCancelled = "cancelled"
)

// Outcome labels for scribe_conditioning_total.
const (
	OutcomeSkipped   = "skipped"
	OutcomeProcessed = "processed"
	OutcomeEnhanced  = "enhanced"
	OutcomeFallback  = "fallback"
)

// Result labels for scribe_transcription_attempts_total.
const (
	ResultAccepted  = "accepted"
	ResultRetried   = "retried"
	ResultTransient = "transient"
	ResultFatal     = "fatal"
)

// Metrics groups the pipeline collectors.
type Metrics struct {
	registry *prometheus.Registry

	PipelineRuns     *prometheus.CounterVec
	Attempts         *prometheus.CounterVec
	Conditioning     *prometheus.CounterVec
	PipelineDuration prometheus.Histogram
	QualityScore     prometheus.Histogram
}

// New registers the collectors on a fresh registry along with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		PipelineRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_pipeline_runs_total",
			Help: "Pipeline runs by outcome",
		}, []string{"outcome"}),
		Attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_transcription_attempts_total",
			Help: "Transcription capability calls by result",
		}, []string{"result"}),
		Conditioning: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_conditioning_total",
			Help: "Audio conditioning decisions by outcome",
		}, []string{"outcome"}),
		PipelineDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "scribe_pipeline_duration_seconds",
			Help:    "Wall-clock duration of pipeline runs",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
		}),
		QualityScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "scribe_quality_score",
			Help:    "Quality score of promoted transcripts",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRun counts a pipeline run and its duration.
func (m *Metrics) RecordRun(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.PipelineRuns.WithLabelValues(outcome).Inc()
	m.PipelineDuration.Observe(d.Seconds())
}

// RecordAttempt counts one transcription capability call.
func (m *Metrics) RecordAttempt(result string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(result).Inc()
}

// RecordConditioning counts a conditioning decision.
func (m *Metrics) RecordConditioning(outcome string) {
	if m == nil {
		return
	}
	m.Conditioning.WithLabelValues(outcome).Inc()
}

// ObserveQuality records the score of a promoted transcript.
func (m *Metrics) ObserveQuality(score float64) {
	if m == nil {
		return
	}
	m.QualityScore.Observe(score)
}
