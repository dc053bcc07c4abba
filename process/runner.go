package process

import (
	"context"
	"time"

	"github.com/kbukum/scribe/resilience"
)

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// Name labels the runner's bulkhead.
	Name string
	// MaxConcurrent caps simultaneous subprocesses. Zero means unbounded.
	MaxConcurrent int
	// Timeout bounds each command. Zero means no timeout.
	Timeout time.Duration
	// GracePeriod is applied to commands that do not set their own.
	GracePeriod time.Duration
}

// Runner executes commands with shared defaults and an optional
// concurrency cap. CPU-heavy tools like ffmpeg go through a Runner so a
// burst of jobs cannot saturate the host.
type Runner struct {
	config   RunnerConfig
	bulkhead *resilience.Bulkhead
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig) *Runner {
	r := &Runner{config: cfg}
	if cfg.MaxConcurrent > 0 {
		r.bulkhead = resilience.NewBulkhead(cfg.Name, cfg.MaxConcurrent)
	}
	return r
}

// Run executes cmd, waiting for a free slot when the runner is saturated.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 {
		cmd.GracePeriod = r.config.GracePeriod
	}
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}
	if r.bulkhead == nil {
		return Run(ctx, cmd)
	}
	return resilience.ExecuteWithResult(ctx, r.bulkhead, func() (*Result, error) {
		return Run(ctx, cmd)
	})
}

// InUse reports how many commands are currently running. Always zero for
// an unbounded runner.
func (r *Runner) InUse() int {
	if r.bulkhead == nil {
		return 0
	}
	return r.bulkhead.InUse()
}
