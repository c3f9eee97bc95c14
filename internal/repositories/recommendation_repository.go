package repositories

import (
	"climatework_backend/internal/models"

	"gorm.io/gorm"
)

type RecommendationRepository interface {
	ReplaceForUser(db *gorm.DB, userID string, recs []models.Recommendation) error
	ListByUser(db *gorm.DB, userID string, limit int) ([]models.Recommendation, error)
}

type recommendationRepository struct{}

func NewRecommendationRepository() RecommendationRepository {
	return &recommendationRepository{}
}

// ReplaceForUser swaps the stored recommendation set for a user in one
// transaction so readers never see a partially written list.
func (r *recommendationRepository) ReplaceForUser(db *gorm.DB, userID string, recs []models.Recommendation) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Recommendation{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		for i := range recs {
			recs[i].UserID = userID
		}
		return tx.Create(&recs).Error
	})
}

func (r *recommendationRepository) ListByUser(db *gorm.DB, userID string, limit int) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	query := db.Where("user_id = ?", userID).Order("score DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
