package repositories

import (
	"errors"
	"time"

	"climatework_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPendingRegistrationNotFound = errors.New("pending registration not found")

// PendingRegistrationRepository stages registration-form data across the
// email-confirmation gap. Reads are idempotent; rows are deleted only after
// the backing profile rows exist, so a failed creation self-heals on the next
// attempt.
type PendingRegistrationRepository interface {
	Upsert(db *gorm.DB, pending *models.PendingRegistration) error
	FindByEmail(db *gorm.DB, email string) (*models.PendingRegistration, error)
	DeleteByEmail(db *gorm.DB, email string) error
	DeleteExpired(db *gorm.DB) (int64, error)
}

type pendingRegistrationRepository struct{}

func NewPendingRegistrationRepository() PendingRegistrationRepository {
	return &pendingRegistrationRepository{}
}

func (r *pendingRegistrationRepository) Upsert(db *gorm.DB, pending *models.PendingRegistration) error {
	var existing models.PendingRegistration
	err := db.Where("email = ?", pending.Email).First(&existing).Error
	if err == nil {
		// Re-registration before confirmation replaces the staged values.
		pending.ID = existing.ID
		pending.CreatedAt = existing.CreatedAt
		return db.Save(pending).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(pending).Error
}

func (r *pendingRegistrationRepository) FindByEmail(db *gorm.DB, email string) (*models.PendingRegistration, error) {
	var pending models.PendingRegistration
	if err := db.Where("email = ?", email).First(&pending).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPendingRegistrationNotFound
		}
		return nil, err
	}
	if pending.Expired(time.Now()) {
		return nil, ErrPendingRegistrationNotFound
	}
	return &pending, nil
}

func (r *pendingRegistrationRepository) DeleteByEmail(db *gorm.DB, email string) error {
	return db.Where("email = ?", email).Delete(&models.PendingRegistration{}).Error
}

func (r *pendingRegistrationRepository) DeleteExpired(db *gorm.DB) (int64, error) {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.PendingRegistration{})
	return result.RowsAffected, result.Error
}
