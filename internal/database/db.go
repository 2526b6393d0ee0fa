package database

import (
	"log"

	"cafepos-backend/internal/config"
	"cafepos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to the database: %v", err)
	}

	if err := AutoMigrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connection established. Migration complete.")
}

// AutoMigrate is shared with the seed command and with tests that run
// against an in-memory database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Floor{},
		&models.Table{},
		&models.Terminal{},
		&models.ProductCategory{},
		&models.Product{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.AuditLog{},
	)
}
