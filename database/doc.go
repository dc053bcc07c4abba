// Package database provides the SQLite-backed GORM connection used to
// persist transcription records and summaries.
//
// Open retries the initial connection, translates driver errors through
// gorm's TranslateError and routes query logs through the scribe logger.
// Schema changes are versioned SQL files applied with golang-migrate:
//
//	//go:embed migrations/*.sql
//	var migrationsFS embed.FS
//
//	db, err := database.Open(ctx, cfg, log)
//	err = db.MigrateUp(database.Migrations{FS: migrationsFS, Dir: "migrations"})
//
// Component adapts DB to the component registry, applying registered
// migrations on Start when AutoMigrate is set.
package database
