package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/scribe/component"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/observability"
)

// Component wraps Storage and implements component.Component for lifecycle management.
type Component struct {
	storage Storage
	cfg     Config
	log     *logger.Logger
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a storage component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	if log == nil {
		log = logger.NewNop()
	}
	return &Component{cfg: cfg, log: log}
}

// Storage returns the underlying Storage, or nil if not started.
func (c *Component) Storage() Storage {
	return c.storage
}

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start initializes the storage backend.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	s, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

// Stop releases the backend.
func (c *Component) Stop(_ context.Context) error {
	c.storage = nil
	return nil
}

// CheckHealth pings backends that support it.
func (c *Component) CheckHealth(ctx context.Context) observability.Health {
	switch {
	case !c.cfg.Enabled:
		return observability.Health{Name: c.Name(), Status: observability.HealthStatusUp, Message: "disabled"}
	case c.storage == nil:
		return observability.Health{Name: c.Name(), Status: observability.HealthStatusDown, Message: "storage not initialized"}
	}
	if p, ok := c.storage.(Pinger); ok {
		return observability.FromError(c.Name(), p.Ping(ctx))
	}
	return observability.FromError(c.Name(), nil)
}
