package database

import (
	"log"

	"stocktrack-backend/internal/config"
	"stocktrack-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	db, err := Open(postgres.Open(cfg.DatabaseDSN))
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	DB = db
	log.Println("Database connected, migration complete.")
}

// Open connects through any GORM dialector and runs the schema migration.
// Production uses Postgres; tests point this at a throwaway SQLite file.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.InventoryItem{},
		&models.ScanLog{},
		&models.CycleCount{},
		&models.CycleCountEntry{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
