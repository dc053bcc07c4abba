// Package testutil provides an in-memory SQLite database for tests of
// packages that persist through the database package.
//
//	db := testutil.Open(t, record.Migrations())
//	testutil.AssertRowCount(t, db.GormDB, "transcriptions", 0)
package testutil
