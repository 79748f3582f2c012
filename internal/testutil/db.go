// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"fulfillment/internal/adapters/out/postgres"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a migrated SQLite database in a per-test temp directory.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := postgres.OpenSQLite(filepath.Join(t.TempDir(), "fulfillment.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	t.Cleanup(func() {
		_ = postgres.Close(db)
	})
	return db
}
