package migrations

import (
	"fmt"
	"log"
	"qr_ordering/internal/models"

	"gorm.io/gorm"
)

// activeCallIndex keeps at most one pending or in_progress call per table.
const activeCallIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_waiter_calls_active_table
	ON waiter_calls (table_id) WHERE status IN ('pending', 'in_progress')`

var DefaultSettings = map[string]string{
	"restaurant_name": "QR Restaurant",
	"currency":        "USD",
	"tax_rate":        "0",
	"welcome_message": "Scan, order and relax.",
}

func allModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductOption{},
		&models.RestaurantTable{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemOption{},
		&models.WaiterCall{},
		&models.Feedback{},
		&models.Setting{},
	}
}

// RunMigrations creates or updates the schema. With reset set, existing tables are dropped first.
func RunMigrations(db *gorm.DB, reset bool) error {
	log.Println("Running database migrations...")

	if reset {
		log.Println("Dropping existing tables...")
		if err := db.Migrator().DropTable(allModels()...); err != nil {
			log.Printf("Warning: Error dropping tables: %v", err)
		}
	}

	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := db.Exec(activeCallIndex).Error; err != nil {
		return fmt.Errorf("failed to create active waiter call index: %w", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// CreateDefaultData seeds the admin account and default settings when missing.
func CreateDefaultData(db *gorm.DB, adminUsername, adminPasswordHash string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", adminUsername).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if count == 0 {
		admin := &models.User{
			Username:     adminUsername,
			PasswordHash: adminPasswordHash,
			Role:         string(models.Admin),
			IsActive:     true,
		}
		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		log.Printf("Admin user %q created", adminUsername)
	}

	for key, value := range DefaultSettings {
		setting := models.Setting{Key: key, Value: value}
		if err := db.Where(models.Setting{Key: key}).FirstOrCreate(&setting).Error; err != nil {
			return fmt.Errorf("failed to create setting %s: %w", key, err)
		}
	}
	return nil
}
