package repositories

import (
	"errors"

	"climatework_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSkillNotFound = errors.New("skill not found")

type SkillRepository interface {
	ListByUser(db *gorm.DB, userID string) ([]models.Skill, error)
	FindByUserAndName(db *gorm.DB, userID, name string) (*models.Skill, error)
	Create(db *gorm.DB, skill *models.Skill) error
	Update(db *gorm.DB, skill *models.Skill) error
	DeleteByUserAndName(db *gorm.DB, userID, name string) error

	// ReplaceForUser reconciles the stored set with desired as a
	// diff-and-patch (insert added, update changed, delete removed) instead
	// of delete-all-then-reinsert, so concurrent writers cannot observe a
	// window with the whole set missing. Callers run it inside a
	// transaction.
	ReplaceForUser(db *gorm.DB, userID string, desired []models.Skill) error
}

type skillRepository struct{}

func NewSkillRepository() SkillRepository {
	return &skillRepository{}
}

func (r *skillRepository) ListByUser(db *gorm.DB, userID string) ([]models.Skill, error) {
	var skills []models.Skill
	err := db.Where("user_id = ?", userID).Order("name ASC").Find(&skills).Error
	return skills, err
}

func (r *skillRepository) FindByUserAndName(db *gorm.DB, userID, name string) (*models.Skill, error) {
	var skill models.Skill
	if err := db.Where("user_id = ? AND name = ?", userID, name).First(&skill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepository) Create(db *gorm.DB, skill *models.Skill) error {
	return db.Create(skill).Error
}

func (r *skillRepository) Update(db *gorm.DB, skill *models.Skill) error {
	result := db.Model(&models.Skill{}).
		Where("user_id = ? AND name = ?", skill.UserID, skill.Name).
		Updates(map[string]interface{}{
			"category":    skill.Category,
			"proficiency": skill.Proficiency,
			"verified":    skill.Verified,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *skillRepository) DeleteByUserAndName(db *gorm.DB, userID, name string) error {
	result := db.Where("user_id = ? AND name = ?", userID, name).Delete(&models.Skill{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *skillRepository) ReplaceForUser(db *gorm.DB, userID string, desired []models.Skill) error {
	existing, err := r.ListByUser(db, userID)
	if err != nil {
		return err
	}

	existingByName := make(map[string]models.Skill, len(existing))
	for _, s := range existing {
		existingByName[s.Name] = s
	}
	desiredByName := make(map[string]models.Skill, len(desired))
	for _, s := range desired {
		desiredByName[s.Name] = s
	}

	// Added and changed
	for name, want := range desiredByName {
		have, ok := existingByName[name]
		if !ok {
			skill := want
			skill.UserID = userID
			if err := r.Create(db, &skill); err != nil {
				return err
			}
			continue
		}
		if have.Category != want.Category || have.Proficiency != want.Proficiency {
			skill := want
			skill.UserID = userID
			skill.Verified = have.Verified // moderation flag survives edits
			if err := r.Update(db, &skill); err != nil {
				return err
			}
		}
	}

	// Removed
	for name := range existingByName {
		if _, ok := desiredByName[name]; !ok {
			if err := r.DeleteByUserAndName(db, userID, name); err != nil {
				return err
			}
		}
	}

	return nil
}
