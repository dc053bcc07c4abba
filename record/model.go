package record

import (
	"embed"

	"github.com/google/uuid"

	"github.com/kbukum/scribe/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the versioned schema for transcriptions and summaries.
func Migrations() database.Migrations {
	return database.Migrations{FS: migrationsFS, Dir: "migrations"}
}

// Transcription is the persisted transcript of one recording.
type Transcription struct {
	database.BaseModel
	RecordingID string  `gorm:"not null;uniqueIndex" json:"recording_id"`
	Text        string  `gorm:"type:text;not null" json:"text"`
	Language    string  `json:"language"`
	Confidence  float64 `json:"confidence"`
	Quality     string  `json:"quality"`
	Provider    string  `json:"provider"`
	Attempts    int     `json:"attempts"`
	Temperature float64 `json:"temperature"`
}

// TableName pins the table created by the migrations.
func (Transcription) TableName() string { return "transcriptions" }

// Summary is the structured enrichment of a transcription.
type Summary struct {
	database.BaseModel
	TranscriptionID uuid.UUID `gorm:"type:text;not null;uniqueIndex" json:"transcription_id"`
	Summary         string    `gorm:"type:text;not null" json:"summary"`
	KeyPoints       []string  `gorm:"serializer:json;type:text" json:"key_points"`
	ActionItems     []string  `gorm:"serializer:json;type:text" json:"action_items"`
	Category        string    `json:"category"`
	Language        string    `json:"language,omitempty"`
	Model           string    `json:"model,omitempty"`
}

// TableName pins the table created by the migrations.
func (Summary) TableName() string { return "summaries" }
