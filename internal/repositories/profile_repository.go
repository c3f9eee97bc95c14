package repositories

import (
	"errors"

	"climatework_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists for this user")
)

// ProfileRepository covers the generic profile row plus both role-specific
// rows. Creation probes for an existing row first (check-then-insert, never
// blind upsert) because onboarding step 1 owns first creation.
type ProfileRepository interface {
	// UserProfile operations
	CreateUserProfile(db *gorm.DB, profile *models.UserProfile) error
	FindUserProfileByUserID(db *gorm.DB, userID string) (*models.UserProfile, error)
	UserProfileExists(db *gorm.DB, userID string) (bool, error)
	UpdateUserProfileFields(db *gorm.DB, userID string, fields map[string]interface{}) error

	// JobSeekerProfile operations
	CreateJobSeekerProfile(db *gorm.DB, profile *models.JobSeekerProfile) error
	FindJobSeekerProfileByUserID(db *gorm.DB, userID string) (*models.JobSeekerProfile, error)
	JobSeekerProfileExists(db *gorm.DB, userID string) (bool, error)
	UpdateJobSeekerProfileFields(db *gorm.DB, userID string, fields map[string]interface{}) error

	// PartnerProfile operations
	CreatePartnerProfile(db *gorm.DB, profile *models.PartnerProfile) error
	FindPartnerProfileByUserID(db *gorm.DB, userID string) (*models.PartnerProfile, error)
	PartnerProfileExists(db *gorm.DB, userID string) (bool, error)
	UpdatePartnerProfileFields(db *gorm.DB, userID string, fields map[string]interface{}) error
	FindAllPartnerProfiles(db *gorm.DB) ([]models.PartnerProfile, error)
}

type profileRepository struct{}

func NewProfileRepository() ProfileRepository {
	return &profileRepository{}
}

// UserProfile operations

func (r *profileRepository) CreateUserProfile(db *gorm.DB, profile *models.UserProfile) error {
	exists, err := r.UserProfileExists(db, profile.UserID)
	if err != nil {
		return err
	}
	if exists {
		return ErrProfileAlreadyExists
	}
	return db.Create(profile).Error
}

func (r *profileRepository) FindUserProfileByUserID(db *gorm.DB, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) UserProfileExists(db *gorm.DB, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.UserProfile{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *profileRepository) UpdateUserProfileFields(db *gorm.DB, userID string, fields map[string]interface{}) error {
	result := db.Model(&models.UserProfile{}).Where("user_id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// JobSeekerProfile operations

func (r *profileRepository) CreateJobSeekerProfile(db *gorm.DB, profile *models.JobSeekerProfile) error {
	exists, err := r.JobSeekerProfileExists(db, profile.UserID)
	if err != nil {
		return err
	}
	if exists {
		return ErrProfileAlreadyExists
	}
	return db.Create(profile).Error
}

func (r *profileRepository) FindJobSeekerProfileByUserID(db *gorm.DB, userID string) (*models.JobSeekerProfile, error) {
	var profile models.JobSeekerProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) JobSeekerProfileExists(db *gorm.DB, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.JobSeekerProfile{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *profileRepository) UpdateJobSeekerProfileFields(db *gorm.DB, userID string, fields map[string]interface{}) error {
	result := db.Model(&models.JobSeekerProfile{}).Where("user_id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// PartnerProfile operations

func (r *profileRepository) CreatePartnerProfile(db *gorm.DB, profile *models.PartnerProfile) error {
	exists, err := r.PartnerProfileExists(db, profile.UserID)
	if err != nil {
		return err
	}
	if exists {
		return ErrProfileAlreadyExists
	}
	return db.Create(profile).Error
}

func (r *profileRepository) FindPartnerProfileByUserID(db *gorm.DB, userID string) (*models.PartnerProfile, error) {
	var profile models.PartnerProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) PartnerProfileExists(db *gorm.DB, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.PartnerProfile{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *profileRepository) UpdatePartnerProfileFields(db *gorm.DB, userID string, fields map[string]interface{}) error {
	result := db.Model(&models.PartnerProfile{}).Where("user_id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) FindAllPartnerProfiles(db *gorm.DB) ([]models.PartnerProfile, error) {
	var profiles []models.PartnerProfile
	err := db.Order("created_at ASC").Find(&profiles).Error
	return profiles, err
}
