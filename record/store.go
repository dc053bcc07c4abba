package record

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm/clause"

	"github.com/kbukum/scribe/database"
	apperrors "github.com/kbukum/scribe/errors"
)

// Store reads and writes transcription records.
type Store struct {
	db *database.DB
}

// NewStore creates a Store over an open database.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// Find returns the record for a recording, or a NotFound AppError.
func (s *Store) Find(ctx context.Context, recordingID string) (*Transcription, error) {
	var t Transcription
	err := s.db.WithContext(ctx).Where("recording_id = ?", recordingID).First(&t).Error
	if err != nil {
		return nil, database.FromDatabase(err, "transcription")
	}
	return &t, nil
}

// Create inserts a new record. A uniqueness violation is returned as a
// DuplicateRecord AppError.
func (s *Store) Create(ctx context.Context, t *Transcription) error {
	err := s.db.WithContext(ctx).Create(t).Error
	switch {
	case err == nil:
		return nil
	case database.IsDuplicateError(err):
		return apperrors.DuplicateRecord("transcription", t.RecordingID, err)
	default:
		return database.FromDatabase(err, "transcription")
	}
}

// UpdateText replaces the text of an existing record with a manual
// correction and returns the updated record.
func (s *Store) UpdateText(ctx context.Context, recordingID, text string) (*Transcription, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.InvalidInput("text", "text must not be empty")
	}

	res := s.db.WithContext(ctx).
		Model(&Transcription{}).
		Where("recording_id = ?", recordingID).
		Updates(map[string]interface{}{"text": text, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, database.FromDatabase(res.Error, "transcription")
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("transcription", recordingID)
	}
	return s.Find(ctx, recordingID)
}

// Delete removes the record of a recording together with its summary.
// It is the cascade hook for deletion of the parent recording.
func (s *Store) Delete(ctx context.Context, recordingID string) error {
	res := s.db.WithContext(ctx).Where("recording_id = ?", recordingID).Delete(&Transcription{})
	if res.Error != nil {
		return database.FromDatabase(res.Error, "transcription")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("transcription", recordingID)
	}
	return nil
}

// FindSummary returns the summary attached to a recording's transcription.
func (s *Store) FindSummary(ctx context.Context, recordingID string) (*Summary, error) {
	var sum Summary
	err := s.db.WithContext(ctx).
		Joins("JOIN transcriptions ON transcriptions.id = summaries.transcription_id").
		Where("transcriptions.recording_id = ?", recordingID).
		First(&sum).Error
	if err != nil {
		return nil, database.FromDatabase(err, "summary")
	}
	return &sum, nil
}

// SaveSummary stores the summary of a transcription, replacing any
// previous one.
func (s *Store) SaveSummary(ctx context.Context, sum *Summary) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "transcription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"summary", "key_points", "action_items", "category", "language", "model", "updated_at",
		}),
	}).Create(sum).Error
	if err != nil {
		return database.FromDatabase(err, "summary")
	}
	return nil
}
