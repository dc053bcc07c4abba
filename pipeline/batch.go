package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is one recording of a batch. Exactly one of Path and ObjectKey is
// used; ObjectKey wins when both are set.
type Job struct {
	RecordingID string     `json:"recording_id"`
	Path        string     `json:"path,omitempty"`
	ObjectKey   string     `json:"object_key,omitempty"`
	Options     RunOptions `json:"-"`
}

// JobResult pairs a job with its outcome or error.
type JobResult struct {
	Job     Job
	Outcome *Outcome
	Err     error
}

// RunBatch runs jobs concurrently, at most concurrency at a time (the
// configured default when <= 0). A failing job never stops the others.
// Results are in job order.
func (s *Service) RunBatch(ctx context.Context, jobs []Job, concurrency int) []JobResult {
	if concurrency <= 0 {
		concurrency = s.cfg.Concurrency
	}
	results := make([]JobResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = JobResult{Job: job}
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			if job.ObjectKey != "" {
				results[i].Outcome, results[i].Err = s.RunObject(ctx, job.ObjectKey, job.RecordingID, job.Options)
			} else {
				results[i].Outcome, results[i].Err = s.Run(ctx, job.Path, job.RecordingID, job.Options)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.log.Info("Batch finished", map[string]interface{}{"jobs": len(jobs), "failed": failed})
	return results
}
