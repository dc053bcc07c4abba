package database

import (
	"context"
	"fmt"

	"github.com/kbukum/scribe/component"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/observability"
)

// Component wraps DB and implements component.Component for lifecycle management.
type Component struct {
	db         *DB
	cfg        Config
	log        *logger.Logger
	migrations []Migrations
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a database component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	if log == nil {
		log = logger.NewNop()
	}
	return &Component{cfg: cfg, log: log}
}

// WithMigrations registers migration sources applied on Start when
// AutoMigrate is enabled.
func (c *Component) WithMigrations(src ...Migrations) *Component {
	c.migrations = append(c.migrations, src...)
	return c
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB {
	return c.db
}

// Name returns the component name.
func (c *Component) Name() string { return "database" }

// Start opens the database and optionally applies migrations.
func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.db = db

	if c.cfg.AutoMigrate {
		for _, src := range c.migrations {
			if err := db.MigrateUp(src); err != nil {
				return fmt.Errorf("database migrate: %w", err)
			}
		}
	}
	return nil
}

// Stop closes the database connection.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// CheckHealth reports the health of the connection pool.
func (c *Component) CheckHealth(ctx context.Context) observability.Health {
	if c.db == nil {
		return observability.Health{
			Name:    c.Name(),
			Status:  observability.HealthStatusDown,
			Message: "database not initialized",
		}
	}
	return c.db.CheckHealth(ctx)
}
