package repositories

import (
	"errors"
	"time"

	"climatework_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAuthCodeNotFound = errors.New("auth code not found")
	ErrAuthCodeConsumed = errors.New("auth code already consumed or expired")
)

// AuthCodeRepository manages one-time session exchange codes.
type AuthCodeRepository interface {
	Create(db *gorm.DB, code *models.AuthCode) error
	FindByCode(db *gorm.DB, code string) (*models.AuthCode, error)

	// Consume atomically marks a usable code consumed and returns it.
	// A second consume of the same code fails.
	Consume(db *gorm.DB, code string) (*models.AuthCode, error)

	DeleteExpired(db *gorm.DB) error
}

type authCodeRepository struct{}

func NewAuthCodeRepository() AuthCodeRepository {
	return &authCodeRepository{}
}

func (r *authCodeRepository) Create(db *gorm.DB, code *models.AuthCode) error {
	return db.Create(code).Error
}

func (r *authCodeRepository) FindByCode(db *gorm.DB, code string) (*models.AuthCode, error) {
	var ac models.AuthCode
	if err := db.Where("code = ?", code).First(&ac).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthCodeNotFound
		}
		return nil, err
	}
	return &ac, nil
}

func (r *authCodeRepository) Consume(db *gorm.DB, code string) (*models.AuthCode, error) {
	now := time.Now()

	result := db.Model(&models.AuthCode{}).
		Where("code = ? AND consumed_at IS NULL AND expires_at > ?", code, now).
		Update("consumed_at", now)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish missing from already-consumed for the caller's logs.
		if _, err := r.FindByCode(db, code); err != nil {
			return nil, err
		}
		return nil, ErrAuthCodeConsumed
	}

	return r.FindByCode(db, code)
}

func (r *authCodeRepository) DeleteExpired(db *gorm.DB) error {
	return db.Where("expires_at < ?", time.Now()).Delete(&models.AuthCode{}).Error
}
