package database

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrations names a directory of versioned migration files inside an
// fs.FS. Files follow VERSION_name.up.sql / VERSION_name.down.sql.
type Migrations struct {
	FS  fs.FS
	Dir string
}

// MigrateUp applies all pending migrations. migrate.ErrNoChange is suppressed.
func (d *DB) MigrateUp(src Migrations) error {
	m, err := d.newMigrator(src)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateDown rolls back every applied migration. migrate.ErrNoChange is suppressed.
func (d *DB) MigrateDown(src Migrations) error {
	m, err := d.newMigrator(src)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// MigrateVersion returns the current migration version and dirty flag.
// A database without migrations reports version 0.
func (d *DB) MigrateVersion(src Migrations) (version uint, dirty bool, err error) {
	m, err := d.newMigrator(src)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// newMigrator binds golang-migrate to the open pool. The migrator is never
// closed: the sqlite3 driver would close the shared *sql.DB with it.
func (d *DB) newMigrator(src Migrations) (*migrate.Migrate, error) {
	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migrate driver: %w", err)
	}
	source, err := iofs.New(src.FS, src.Dir)
	if err != nil {
		return nil, fmt.Errorf("open migration source %s: %w", src.Dir, err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
