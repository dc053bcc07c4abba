package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kbukum/scribe/database"
)

// Open returns a migrated, isolated in-memory database closed at test end.
// Each call gets a private shared-cache name so concurrent tests never
// see each other's rows.
func Open(t *testing.T, migrations ...database.Migrations) *database.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_") + "_" + uuid.NewString()
	db, err := database.Open(context.Background(), database.Config{
		DSN:        fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name),
		MaxRetries: 1,
		LogLevel:   "silent",
	}, nil)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, src := range migrations {
		if err := db.MigrateUp(src); err != nil {
			t.Fatalf("migrate test database: %v", err)
		}
	}
	return db
}

// TruncateTable removes all rows from a table.
func TruncateTable(db *gorm.DB, table string) error {
	return db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error
}

// TableExists checks if a table exists in the database.
func TableExists(db *gorm.DB, table string) bool {
	return db.Migrator().HasTable(table)
}

// CountRows returns the number of rows in a table.
func CountRows(db *gorm.DB, table string) (int64, error) {
	var count int64
	err := db.Raw(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count).Error
	return count, err
}

// AssertRowCount fails the test if the table doesn't have the expected row count.
func AssertRowCount(t *testing.T, db *gorm.DB, table string, expected int64) {
	t.Helper()
	count, err := CountRows(db, table)
	if err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	if count != expected {
		t.Errorf("table %s row count = %d, want %d", table, count, expected)
	}
}
