package main

import (
	"fmt"
	"log"

	"qr_ordering/internal/config"
	"qr_ordering/internal/database"
	"qr_ordering/internal/migrations"
	"qr_ordering/internal/services"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, database.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		LogLevel:     cfg.DBLogLevel,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Force recreate all tables
	fmt.Println("Recreating tables...")
	if err := migrations.RunMigrations(db, true); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("Creating admin user and default settings...")
	hash, err := services.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}
	if err := migrations.CreateDefaultData(db, cfg.AdminUsername, hash); err != nil {
		log.Fatal("Failed to create default data:", err)
	}

	fmt.Printf("Admin user: %s\n", cfg.AdminUsername)
	fmt.Println("Database initialization completed successfully!")
}
