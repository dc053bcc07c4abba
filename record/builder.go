package record

import (
	"context"
	"strings"

	"github.com/kbukum/scribe/adaptive"
	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
)

// Repository is the persistence Builder needs. *Store implements it.
type Repository interface {
	Find(ctx context.Context, recordingID string) (*Transcription, error)
	Create(ctx context.Context, t *Transcription) error
}

// Builder turns transcription results into records.
type Builder struct {
	repo Repository
	log  *logger.Logger
}

// NewBuilder creates a Builder. A nil logger discards output.
func NewBuilder(repo Repository, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.NewNop()
	}
	return &Builder{repo: repo, log: log.WithComponent("record")}
}

// Persist stores res as the transcription of recordingID. It reports
// whether a new record was created; when a record already exists, that
// record is returned unchanged. Persisting a failed result is a
// ContractViolation.
func (b *Builder) Persist(ctx context.Context, res *adaptive.Result, recordingID string) (*Transcription, bool, error) {
	if res.Failed() {
		return nil, false, apperrors.ContractViolation("cannot persist a failed transcription result")
	}
	if strings.TrimSpace(recordingID) == "" {
		return nil, false, apperrors.MissingField("recording_id")
	}

	existing, err := b.repo.Find(ctx, recordingID)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
		return nil, false, err
	}

	t := &Transcription{
		RecordingID: recordingID,
		Text:        res.Text(),
		Language:    res.Language,
		Confidence:  res.ConfidenceScore,
		Quality:     string(res.Quality),
		Provider:    res.Provider,
		Attempts:    res.Attempts,
		Temperature: res.TemperatureUsed,
	}
	err = b.repo.Create(ctx, t)
	if err == nil {
		b.log.Info("Transcription persisted", map[string]interface{}{
			"recording_id": recordingID,
			"quality":      t.Quality,
			"chars":        len(t.Text),
		})
		return t, true, nil
	}
	if !apperrors.IsCode(err, apperrors.ErrCodeDuplicateRecord) {
		return nil, false, err
	}

	b.log.Info("Concurrent run already persisted transcription, returning it", map[string]interface{}{
		"recording_id": recordingID,
	})
	winner, err := b.repo.Find(ctx, recordingID)
	if err != nil {
		return nil, false, err
	}
	return winner, false, nil
}
