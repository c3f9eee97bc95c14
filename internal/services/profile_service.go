package services

import (
	"errors"

	"climatework_backend/internal/logger"
	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/services/dto"
	"climatework_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const recommendationWarning = "recommendation refresh failed"

// ProfileService is the mutation layer for profile rows. Primary write
// failures propagate; recommendation triggers and other secondary effects
// surface only as warnings on the MutationOutcome.
type ProfileService interface {
	GetUserProfile(db *gorm.DB, userID string) (*dto.UserProfileResponse, error)
	GetJobSeekerProfile(db *gorm.DB, userID string) (*models.JobSeekerProfile, error)
	GetPartnerProfile(db *gorm.DB, userID string) (*models.PartnerProfile, error)

	UpdateUserProfile(db *gorm.DB, userID string, req *dto.UpdateUserProfileRequest) (dto.MutationOutcome, error)
	UpdateJobSeekerProfile(db *gorm.DB, userID string, req *dto.UpdateJobSeekerProfileRequest) (dto.MutationOutcome, error)

	ListSkills(db *gorm.DB, userID string) ([]dto.SkillResponse, error)
	UpdateUserSkills(db *gorm.DB, userID string, req *dto.UpdateSkillsRequest) (dto.MutationOutcome, error)

	SetResume(db *gorm.DB, userID, url, filename string) error
	SetPartnerLogo(db *gorm.DB, userID, url string) error
}

type ProfileServiceImpl struct {
	profileRepo repositories.ProfileRepository
	skillRepo   repositories.SkillRepository
	recService  RecommendationService
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	skillRepo repositories.SkillRepository,
	recService RecommendationService,
) ProfileService {
	return &ProfileServiceImpl{
		profileRepo: profileRepo,
		skillRepo:   skillRepo,
		recService:  recService,
	}
}

// ==========================
// Reads
// ==========================

func (s *ProfileServiceImpl) GetUserProfile(db *gorm.DB, userID string) (*dto.UserProfileResponse, error) {
	profile, err := s.profileRepo.FindUserProfileByUserID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}

	resp := &dto.UserProfileResponse{
		UserID:           profile.UserID,
		UserType:         string(profile.UserType),
		FirstName:        profile.FirstName,
		LastName:         profile.LastName,
		Phone:            profile.Phone,
		ProfileCompleted: profile.ProfileCompleted,
		OrganizationName: profile.OrganizationName,
		OrganizationType: profile.OrganizationType,
	}
	if len(profile.Location) > 0 {
		loc := profile.LocationValue()
		resp.Location = &loc
	}
	return resp, nil
}

func (s *ProfileServiceImpl) GetJobSeekerProfile(db *gorm.DB, userID string) (*models.JobSeekerProfile, error) {
	profile, err := s.profileRepo.FindJobSeekerProfileByUserID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	return profile, nil
}

func (s *ProfileServiceImpl) GetPartnerProfile(db *gorm.DB, userID string) (*models.PartnerProfile, error) {
	profile, err := s.profileRepo.FindPartnerProfileByUserID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}
	return profile, nil
}

// ==========================
// Generic profile mutation
// ==========================

func (s *ProfileServiceImpl) UpdateUserProfile(db *gorm.DB, userID string, req *dto.UpdateUserProfileRequest) (dto.MutationOutcome, error) {
	fields := make(map[string]interface{})
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.OrganizationName != nil {
		fields["organization_name"] = *req.OrganizationName
	}
	if req.OrganizationType != nil {
		fields["organization_type"] = *req.OrganizationType
	}

	// Location is the only generic field that feeds matching.
	relevant := false
	if req.Location != nil {
		loc, err := models.JSONColumn(req.Location)
		if err != nil {
			return dto.MutationOutcome{Status: dto.MutationFailed}, apperrors.InternalError(err)
		}
		fields["location"] = loc
		relevant = true
	}

	if len(fields) == 0 {
		return dto.Applied(), nil
	}

	if err := s.profileRepo.UpdateUserProfileFields(db, userID, fields); err != nil {
		return dto.MutationOutcome{Status: dto.MutationFailed}, handleProfileError(err)
	}

	if !relevant {
		return dto.Applied(), nil
	}
	return s.triggerRecommendations(db, userID), nil
}

// ==========================
// Job seeker profile mutation
// ==========================

// recommendation-relevant job-seeker fields
var jobSeekerRelevantFields = map[string]bool{
	"preferred_job_types":        true,
	"preferred_work_environment": true,
	"willing_to_relocate":        true,
	"preferred_locations":        true,
	"salary_expectations":        true,
	"highest_education":          true,
	"years_of_experience":        true,
}

func (s *ProfileServiceImpl) UpdateJobSeekerProfile(db *gorm.DB, userID string, req *dto.UpdateJobSeekerProfileRequest) (dto.MutationOutcome, error) {
	fields := make(map[string]interface{})

	if req.Education != nil {
		col, err := models.JSONColumn(req.Education)
		if err != nil {
			return dto.MutationOutcome{Status: dto.MutationFailed}, apperrors.InternalError(err)
		}
		fields["education"] = col
	}
	if req.WorkExperience != nil {
		col, err := models.JSONColumn(req.WorkExperience)
		if err != nil {
			return dto.MutationOutcome{Status: dto.MutationFailed}, apperrors.InternalError(err)
		}
		fields["work_experience"] = col
	}
	if req.HighestEducation != nil {
		fields["highest_education"] = *req.HighestEducation
	}
	if req.YearsOfExperience != nil {
		fields["years_of_experience"] = *req.YearsOfExperience
	}
	if req.Interests != nil {
		col, err := models.JSONColumn(req.Interests)
		if err != nil {
			return dto.MutationOutcome{Status: dto.MutationFailed}, apperrors.InternalError(err)
		}
		fields["interests"] = col
	}
	if req.PreferredJobTypes != nil {
		col, err := models.JSONColumn(req.PreferredJobTypes)
		if err != nil {
			return dto.MutationOutcome{Status: dto.MutationFailed}, apperrors.InternalError(err)
		}
		fields["preferred_job_types"] = col
	}
	if req.PreferredWorkEnvironment != nil {
		col, err := models.JSONColumn(req.PreferredWorkEnvironment)
		if err != nil {
			return dto.MutationOutcome{Status: dto.MutationFailed}, apperrors.InternalError(err)
		}
		fields["preferred_work_environment"] = col
	}
	if req.WillingToRelocate != nil {
		fields["willing_to_relocate"] = *req.WillingToRelocate
	}
	if req.PreferredLocations != nil {
		col, err := models.JSONColumn(req.PreferredLocations)
		if err != nil {
			return dto.MutationOutcome{Status: dto.MutationFailed}, apperrors.InternalError(err)
		}
		fields["preferred_locations"] = col
	}
	if req.SalaryExpectations != nil {
		col, err := models.JSONColumn(req.SalaryExpectations)
		if err != nil {
			return dto.MutationOutcome{Status: dto.MutationFailed}, apperrors.InternalError(err)
		}
		fields["salary_expectations"] = col
	}

	if len(fields) == 0 {
		return dto.Applied(), nil
	}

	if err := s.profileRepo.UpdateJobSeekerProfileFields(db, userID, fields); err != nil {
		return dto.MutationOutcome{Status: dto.MutationFailed}, handleProfileError(err)
	}

	relevant := false
	for name := range fields {
		if jobSeekerRelevantFields[name] {
			relevant = true
			break
		}
	}
	if !relevant {
		return dto.Applied(), nil
	}
	return s.triggerRecommendations(db, userID), nil
}

// ==========================
// Skills
// ==========================

func (s *ProfileServiceImpl) ListSkills(db *gorm.DB, userID string) ([]dto.SkillResponse, error) {
	skills, err := s.skillRepo.ListByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.SkillResponse, 0, len(skills))
	for _, skill := range skills {
		out = append(out, dto.SkillResponse{
			Name:        skill.Name,
			Category:    skill.Category,
			Proficiency: skill.Proficiency,
			Verified:    skill.Verified,
		})
	}
	return out, nil
}

// UpdateUserSkills applies the requested op and unconditionally re-triggers
// recommendations: any skills change affects matching.
func (s *ProfileServiceImpl) UpdateUserSkills(db *gorm.DB, userID string, req *dto.UpdateSkillsRequest) (dto.MutationOutcome, error) {
	if !req.Op.Valid() {
		return dto.MutationOutcome{Status: dto.MutationFailed},
			apperrors.NewBadRequestError("unknown skills operation: " + string(req.Op))
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		switch req.Op {
		case dto.SkillsOpAdd:
			for _, entry := range req.Skills {
				_, err := s.skillRepo.FindByUserAndName(tx, userID, entry.Name)
				if err == nil {
					continue // already present, add never overwrites
				}
				if !errors.Is(err, repositories.ErrSkillNotFound) {
					return err
				}
				if err := s.skillRepo.Create(tx, skillFromEntry(userID, entry)); err != nil {
					return err
				}
			}
		case dto.SkillsOpUpdate:
			for _, entry := range req.Skills {
				existing, err := s.skillRepo.FindByUserAndName(tx, userID, entry.Name)
				if err != nil {
					return err
				}
				skill := skillFromEntry(userID, entry)
				skill.Verified = existing.Verified // moderation flag survives edits
				if err := s.skillRepo.Update(tx, skill); err != nil {
					return err
				}
			}
		case dto.SkillsOpRemove:
			for _, entry := range req.Skills {
				err := s.skillRepo.DeleteByUserAndName(tx, userID, entry.Name)
				if err != nil && !errors.Is(err, repositories.ErrSkillNotFound) {
					return err
				}
			}
		case dto.SkillsOpReplace:
			desired := make([]models.Skill, 0, len(req.Skills))
			for _, entry := range req.Skills {
				desired = append(desired, *skillFromEntry(userID, entry))
			}
			if err := s.skillRepo.ReplaceForUser(tx, userID, desired); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dto.MutationOutcome{Status: dto.MutationFailed}, handleProfileError(err)
	}

	return s.triggerRecommendations(db, userID), nil
}

func skillFromEntry(userID string, entry dto.SkillEntry) *models.Skill {
	return &models.Skill{
		UserID:      userID,
		Name:        entry.Name,
		Category:    entry.Category,
		Proficiency: entry.Proficiency,
	}
}

// ==========================
// Uploads
// ==========================

func (s *ProfileServiceImpl) SetResume(db *gorm.DB, userID, url, filename string) error {
	err := s.profileRepo.UpdateJobSeekerProfileFields(db, userID, map[string]interface{}{
		"resume_url":        url,
		"resume_filename":   filename,
		"has_resume":        true,
		"will_upload_later": false,
		"resume_parsed":     false,
	})
	return handleProfileError(err)
}

func (s *ProfileServiceImpl) SetPartnerLogo(db *gorm.DB, userID, url string) error {
	err := s.profileRepo.UpdatePartnerProfileFields(db, userID, map[string]interface{}{
		"logo_url": url,
	})
	return handleProfileError(err)
}

// ==========================
// Helpers
// ==========================

// triggerRecommendations fires the best-effort recomputation. A failure is
// downgraded to a warning on the outcome, never an error.
func (s *ProfileServiceImpl) triggerRecommendations(db *gorm.DB, userID string) dto.MutationOutcome {
	if err := s.recService.GenerateAllRecommendations(db, userID); err != nil {
		logger.WithError(err).Warn("recommendation trigger failed", "user_id", userID)
		return dto.AppliedWithWarnings(recommendationWarning)
	}
	return dto.Applied()
}

func handleProfileError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrProfileNotFound):
		return apperrors.ErrProfileNotFound
	case errors.Is(err, repositories.ErrProfileAlreadyExists):
		return apperrors.NewConflictError("Profile already exists")
	case errors.Is(err, repositories.ErrSkillNotFound):
		return apperrors.NewNotFoundError("Skill not found")
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	default:
		return apperrors.InternalError(err)
	}
}
