package pipeline

import (
	"context"

	"github.com/kbukum/scribe/adaptive"
)

// Preview reports how a file would be processed without transcribing it.
type Preview struct {
	*adaptive.Analysis
	EstimatedProcessingSeconds float64 `json:"estimated_processing_seconds"`
}

// Preview analyzes the file at path. Nothing is written and the provider
// is not called.
func (s *Service) Preview(ctx context.Context, path string) (*Preview, error) {
	a, err := s.driver.Analyze(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Analysis:                   a,
		EstimatedProcessingSeconds: a.Audio.DurationSeconds * s.cfg.EstimateFactor,
	}, nil
}
