package watcher

import (
	"context"
	"sync"

	"github.com/kbukum/scribe/component"
	"github.com/kbukum/scribe/observability"
)

var _ component.Component = (*Component)(nil)

// Component runs a Watcher in the background under the component registry.
type Component struct {
	w *Watcher

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan error
}

// NewComponent wraps w.
func NewComponent(w *Watcher) *Component {
	return &Component{w: w}
}

// Name returns the component name used for registration.
func (c *Component) Name() string { return "watcher" }

// Start begins watching in a goroutine. The watcher outlives ctx; it stops
// on Stop.
func (c *Component) Start(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan error, 1)
	go func() { c.done <- c.w.Run(ctx) }()
	return nil
}

// Stop cancels the watcher and waits for in-flight runs, bounded by ctx.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel = nil
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}

	cancel()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CheckHealth reports up while the watcher is running.
func (c *Component) CheckHealth(context.Context) observability.Health {
	c.mu.Lock()
	running := c.cancel != nil
	c.mu.Unlock()

	h := observability.Health{
		Name:    "watcher",
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"dir": c.w.cfg.Dir},
	}
	if !running {
		h.Status = observability.HealthStatusDown
		h.Message = "watcher not running"
	}
	return h
}
