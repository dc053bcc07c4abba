package app

import (
	"context"
	"fmt"

	"github.com/kbukum/scribe/database"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/record"
)

// Migration directions accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateVersion = "version"
)

// Migrate applies or reverts the record schema on the configured database
// and returns the resulting schema version.
func Migrate(ctx context.Context, cfg database.Config, direction string, log *logger.Logger) (uint, error) {
	cfg.ApplyDefaults()
	cfg.AutoMigrate = false
	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	src := record.Migrations()
	switch direction {
	case MigrateUp:
		err = db.MigrateUp(src)
	case MigrateDown:
		err = db.MigrateDown(src)
	case MigrateVersion:
	default:
		return 0, fmt.Errorf("migrate: unknown direction %q (want up, down or version)", direction)
	}
	if err != nil {
		return 0, err
	}

	v, dirty, err := db.MigrateVersion(src)
	if err != nil {
		return 0, err
	}
	if dirty {
		return v, fmt.Errorf("migrate: schema version %d is dirty", v)
	}
	return v, nil
}
