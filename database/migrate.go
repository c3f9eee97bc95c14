package database

import (
	"fmt"

	"climatework_backend/internal/config"
	"climatework_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm opens (or returns the cached) GORM connection using the
// configured database URL.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate migrates every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AuthCode{},
		&models.PendingRegistration{},
		&models.UserProfile{},
		&models.JobSeekerProfile{},
		&models.PartnerProfile{},
		&models.Skill{},
		&models.Recommendation{},
		&models.SecurityEvent{},
	)
}
