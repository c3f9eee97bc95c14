package repositories

import (
	"climatework_backend/internal/models"

	"gorm.io/gorm"
)

type SecurityEventRepository interface {
	Create(db *gorm.DB, event *models.SecurityEvent) error
	ListRecent(db *gorm.DB, userID string, limit int) ([]models.SecurityEvent, error)
}

type securityEventRepository struct{}

func NewSecurityEventRepository() SecurityEventRepository {
	return &securityEventRepository{}
}

func (r *securityEventRepository) Create(db *gorm.DB, event *models.SecurityEvent) error {
	return db.Create(event).Error
}

func (r *securityEventRepository) ListRecent(db *gorm.DB, userID string, limit int) ([]models.SecurityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []models.SecurityEvent
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
