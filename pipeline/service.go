package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/scribe/adaptive"
	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/metrics"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/record"
	"github.com/kbukum/scribe/storage"
)

// Transcriber is the adaptive driver as the pipeline sees it.
type Transcriber interface {
	Transcribe(ctx context.Context, path string, opts adaptive.Options) (*adaptive.Result, error)
	Analyze(ctx context.Context, path string) (*adaptive.Analysis, error)
}

// Enricher adds a summary to a freshly created record. It must not fail
// the run; a nil summary means enrichment was skipped or failed.
type Enricher interface {
	Enrich(ctx context.Context, t *record.Transcription) *record.Summary
}

// Deps are the collaborators of a Service. Driver and Records are required.
type Deps struct {
	Driver   Transcriber
	Records  record.Repository
	Enricher Enricher
	Storage  storage.Storage
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
}

// RunOptions are per-run parameters passed through to the driver.
type RunOptions struct {
	Language    string
	MaxAttempts int
}

// Outcome is the result of one run.
type Outcome struct {
	Record *record.Transcription `json:"record"`
	// Created is false when the record already existed.
	Created bool `json:"created"`
	// Result is the driver output; nil when the record already existed.
	Result  *adaptive.Result `json:"result,omitempty"`
	Summary *record.Summary  `json:"summary,omitempty"`
}

// Service runs recordings through the pipeline. It is safe for
// concurrent use.
type Service struct {
	cfg      Config
	driver   Transcriber
	records  record.Repository
	builder  *record.Builder
	enricher Enricher
	storage  storage.Storage
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewService creates a Service.
func NewService(cfg Config, deps Deps) (*Service, error) {
	if deps.Driver == nil {
		return nil, fmt.Errorf("pipeline: driver is required")
	}
	if deps.Records == nil {
		return nil, fmt.Errorf("pipeline: records are required")
	}
	cfg.ApplyDefaults()
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		cfg:      cfg,
		driver:   deps.Driver,
		records:  deps.Records,
		builder:  record.NewBuilder(deps.Records, log),
		enricher: deps.Enricher,
		storage:  deps.Storage,
		metrics:  deps.Metrics,
		log:      log.WithComponent("pipeline"),
	}, nil
}

// Run transcribes the audio at path as recordingID and persists the
// record. An existing record for recordingID is returned without touching
// the audio.
func (s *Service) Run(ctx context.Context, path, recordingID string, opts RunOptions) (out *Outcome, err error) {
	start := time.Now()
	ctx = logger.ContextWithRecordingID(ctx, recordingID)
	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun,
		attribute.String(observability.AttrRecordingID, recordingID))
	defer func() {
		outcome := outcomeLabel(out, err)
		span.SetAttributes(attribute.String(observability.AttrOutcome, outcome))
		observability.EndSpan(span, err)
		s.metrics.RecordRun(outcome, time.Since(start))
	}()

	if existing, err := s.existing(ctx, recordingID); err != nil || existing != nil {
		return existing, err
	}
	return s.run(ctx, path, recordingID, opts)
}

// RunObject downloads key from storage into a temporary file owned by
// this run and transcribes it. The file is removed on every path.
func (s *Service) RunObject(ctx context.Context, key, recordingID string, opts RunOptions) (out *Outcome, err error) {
	start := time.Now()
	ctx = logger.ContextWithRecordingID(ctx, recordingID)
	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun,
		attribute.String(observability.AttrRecordingID, recordingID),
		attribute.String("object_key", key))
	defer func() {
		outcome := outcomeLabel(out, err)
		span.SetAttributes(attribute.String(observability.AttrOutcome, outcome))
		observability.EndSpan(span, err)
		s.metrics.RecordRun(outcome, time.Since(start))
	}()

	if s.storage == nil {
		return nil, apperrors.ServiceUnavailable("storage")
	}
	if strings.TrimSpace(key) == "" {
		return nil, apperrors.MissingField("object_key")
	}
	if existing, err := s.existing(ctx, recordingID); err != nil || existing != nil {
		return existing, err
	}

	path, cleanup, err := storage.DownloadToTemp(ctx, s.storage, key, s.cfg.TempDir, s.cfg.MaxObjectBytes)
	defer cleanup()
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NotFound("object", key)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.ExternalServiceError("storage", err)
	}
	s.log.Debug("Object downloaded", map[string]interface{}{"key": key, "path": path, "recording_id": recordingID})

	return s.run(ctx, path, recordingID, opts)
}

// existing returns the stored outcome for recordingID, or nil when there
// is none yet.
func (s *Service) existing(ctx context.Context, recordingID string) (*Outcome, error) {
	if strings.TrimSpace(recordingID) == "" {
		return nil, apperrors.MissingField("recording_id")
	}
	rec, err := s.records.Find(ctx, recordingID)
	switch {
	case err == nil:
		s.log.Info("Recording already transcribed", map[string]interface{}{"recording_id": recordingID})
		return &Outcome{Record: rec}, nil
	case apperrors.IsCode(err, apperrors.ErrCodeNotFound):
		return nil, nil
	default:
		return nil, err
	}
}

func (s *Service) run(ctx context.Context, path, recordingID string, opts RunOptions) (*Outcome, error) {
	log := s.log.WithFields(map[string]interface{}{"recording_id": recordingID})

	res, err := s.driver.Transcribe(ctx, path, adaptive.Options{Language: opts.Language, MaxAttempts: opts.MaxAttempts})
	if err != nil {
		log.WithError(err).Warn("Transcription aborted")
		return nil, err
	}
	if res.Failed() {
		log.Error("All transcription attempts failed", map[string]interface{}{
			"attempts": res.Attempts,
			"warnings": res.Warnings,
		})
		return nil, apperrors.AllAttemptsFailed(res.Attempts, res.Warnings)
	}

	rec, created, err := s.builder.Persist(ctx, res, recordingID)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Record: rec, Created: created, Result: res}
	if created && s.enricher != nil {
		out.Summary = s.enricher.Enrich(ctx, rec)
	}

	log.Info("Recording transcribed", map[string]interface{}{
		"created":  created,
		"quality":  res.Quality,
		"score":    res.ConfidenceScore,
		"attempts": res.Attempts,
		"chars":    len(rec.Text),
	})
	return out, nil
}

// outcomeLabel maps a run's result onto the runs metric label.
func outcomeLabel(out *Outcome, err error) string {
	switch {
	case err == nil && out != nil && out.Created:
		return metrics.OutcomeCreated
	case err == nil:
		return metrics.OutcomeExisting
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCancelled
	case apperrors.IsValidation(err):
		return metrics.OutcomeRejected
	case apperrors.IsCode(err, apperrors.ErrCodeAllAttemptsFailed):
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeFatal
	}
}
