package component

import (
	"context"

	"github.com/kbukum/scribe/observability"
)

// Component represents a lifecycle-managed infrastructure component.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// CheckHealth reports the current health of the component.
	CheckHealth(ctx context.Context) observability.Health
}
