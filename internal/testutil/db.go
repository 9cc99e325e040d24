package testutil

import (
	"testing"

	"qr_ordering/internal/database"
	"qr_ordering/internal/migrations"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database closed at test cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Initialize("sqlite:file::memory:", database.Options{LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, migrations.RunMigrations(db, false))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}
