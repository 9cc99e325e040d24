package migrations

import (
	"testing"

	"qr_ordering/internal/database"
	"qr_ordering/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsAndSeed(t *testing.T) {
	db, err := database.Initialize("sqlite:file::memory:", database.Options{LogLevel: "silent"})
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db, false))
	require.NoError(t, RunMigrations(db, true))

	require.NoError(t, CreateDefaultData(db, "admin", "hash"))
	require.NoError(t, CreateDefaultData(db, "admin", "hash"))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)

	var settings int64
	require.NoError(t, db.Model(&models.Setting{}).Count(&settings).Error)
	assert.Equal(t, int64(len(DefaultSettings)), settings)
}

func TestActiveCallIndexRejectsSecondActiveCall(t *testing.T) {
	db, err := database.Initialize("sqlite:file::memory:", database.Options{LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db, false))

	table := models.RestaurantTable{TableNumber: "1", Status: models.TableAvailable}
	require.NoError(t, db.Create(&table).Error)

	require.NoError(t, db.Create(&models.WaiterCall{TableID: table.ID, Status: models.CallPending}).Error)
	assert.Error(t, db.Create(&models.WaiterCall{TableID: table.ID, Status: models.CallInProgress}).Error)

	// completed calls do not count
	require.NoError(t, db.Create(&models.WaiterCall{TableID: table.ID, Status: models.CallCompleted}).Error)
}
