package services

import (
	"errors"
	"fmt"
	"time"

	"climatework_backend/internal/logger"
	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/services/dto"
	"climatework_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OnboardingService is the per-role step state machine. Each submit persists
// only the step's own fields, advances onboarding_step, and returns the next
// route. Step 1 creates both profile rows; the terminal step flips the
// completion flags.
type OnboardingService interface {
	GetStep(db *gorm.DB, userID string, userType models.UserType, step int) (*dto.StepState, error)

	SubmitJobSeekerStep1(db *gorm.DB, userID string, req *dto.JobSeekerStep1Request) (*dto.StepResult, error)
	SubmitJobSeekerStep2(db *gorm.DB, userID string, req *dto.JobSeekerStep2Request) (*dto.StepResult, error)
	SubmitJobSeekerStep3(db *gorm.DB, userID string, req *dto.JobSeekerStep3Request) (*dto.StepResult, error)
	SubmitJobSeekerStep4(db *gorm.DB, userID string, req *dto.JobSeekerStep4Request) (*dto.StepResult, error)
	SubmitJobSeekerStep5(db *gorm.DB, userID string, req *dto.JobSeekerStep5Request) (*dto.StepResult, error)

	SubmitPartnerStep1(db *gorm.DB, userID string, req *dto.PartnerStep1Request) (*dto.StepResult, error)
	SubmitPartnerStep2(db *gorm.DB, userID string, req *dto.PartnerStep2Request) (*dto.StepResult, error)
	SubmitPartnerStep3(db *gorm.DB, userID string, req *dto.PartnerStep3Request) (*dto.StepResult, error)
	SubmitPartnerStep4(db *gorm.DB, userID string, req *dto.PartnerStep4Request) (*dto.StepResult, error)
}

type OnboardingServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	skillRepo   repositories.SkillRepository
	pendingRepo repositories.PendingRegistrationRepository
	recService  RecommendationService
	audit       AuditService
}

func NewOnboardingService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	skillRepo repositories.SkillRepository,
	pendingRepo repositories.PendingRegistrationRepository,
	recService RecommendationService,
	audit AuditService,
) OnboardingService {
	return &OnboardingServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		skillRepo:   skillRepo,
		pendingRepo: pendingRepo,
		recService:  recService,
		audit:       audit,
	}
}

// ==========================
// Pre-fill
// ==========================

// GetStep returns the persisted values for the fields a step owns, so a
// revisited step re-populates from stored state instead of a blank form.
func (s *OnboardingServiceImpl) GetStep(db *gorm.DB, userID string, userType models.UserType, step int) (*dto.StepState, error) {
	if step < 1 || step > models.OnboardingSteps(userType) {
		return nil, apperrors.ErrInvalidStep
	}

	switch userType {
	case models.UserTypeJobSeeker:
		return s.getJobSeekerStep(db, userID, step)
	case models.UserTypePartner:
		return s.getPartnerStep(db, userID, step)
	}
	return nil, apperrors.ErrInvalidUserType
}

func (s *OnboardingServiceImpl) getJobSeekerStep(db *gorm.DB, userID string, step int) (*dto.StepState, error) {
	state := &dto.StepState{Step: step, Fields: map[string]interface{}{}}

	if step == 1 {
		profile, err := s.profileRepo.FindUserProfileByUserID(db, userID)
		if err == nil {
			state.Fields["first_name"] = profile.FirstName
			state.Fields["last_name"] = profile.LastName
			state.Fields["phone"] = profile.Phone
			state.Fields["location"] = profile.LocationValue()
			return state, nil
		}
		if !errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.InternalError(err)
		}
		// No row yet: fall back to staged registration data.
		s.prefillFromPending(db, userID, state)
		return state, nil
	}

	profile, err := s.profileRepo.FindJobSeekerProfileByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return state, nil
		}
		return nil, apperrors.InternalError(err)
	}

	switch step {
	case 2:
		var education []dto.EducationEntry
		var experience []dto.WorkExperienceEntry
		_ = models.DecodeJSONColumn(profile.Education, &education)
		_ = models.DecodeJSONColumn(profile.WorkExperience, &experience)
		state.Fields["education"] = education
		state.Fields["work_experience"] = experience
		state.Fields["highest_education"] = profile.HighestEducation
		state.Fields["years_of_experience"] = profile.YearsOfExperience
	case 3:
		skills, err := s.skillRepo.ListByUser(db, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		entries := make([]dto.SkillEntry, 0, len(skills))
		for _, skill := range skills {
			entries = append(entries, dto.SkillEntry{
				Name:        skill.Name,
				Category:    skill.Category,
				Proficiency: skill.Proficiency,
			})
		}
		state.Fields["skills"] = entries
		state.Fields["interests"] = models.StringsColumn(profile.Interests)
		state.Fields["preferred_job_types"] = models.StringsColumn(profile.PreferredJobTypes)
		state.Fields["preferred_work_environment"] = models.StringsColumn(profile.PreferredWorkEnvironment)
		state.Fields["willing_to_relocate"] = profile.WillingToRelocate
		state.Fields["preferred_locations"] = models.StringsColumn(profile.PreferredLocations)
		state.Fields["salary_expectations"] = profile.SalaryValue()
	case 4:
		state.Fields["has_resume"] = profile.HasResume
		state.Fields["will_upload_later"] = profile.WillUploadLater
		state.Fields["resume_url"] = profile.ResumeURL
		state.Fields["resume_filename"] = profile.ResumeFilename
	case 5:
		state.Fields["terms_accepted"] = profile.TermsAcceptedAt != nil
		state.Fields["onboarding_completed"] = profile.OnboardingCompleted
	}

	return state, nil
}

func (s *OnboardingServiceImpl) getPartnerStep(db *gorm.DB, userID string, step int) (*dto.StepState, error) {
	state := &dto.StepState{Step: step, Fields: map[string]interface{}{}}

	profile, err := s.profileRepo.FindPartnerProfileByUserID(db, userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.InternalError(err)
		}
		if step == 1 {
			s.prefillFromPending(db, userID, state)
		}
		return state, nil
	}

	switch step {
	case 1:
		state.Fields["organization_name"] = profile.OrganizationName
		state.Fields["organization_type"] = profile.OrganizationType
		state.Fields["website"] = profile.Website
		state.Fields["description"] = profile.Description
		state.Fields["climate_focus"] = models.StringsColumn(profile.ClimateFocus)
	case 2:
		state.Fields["services_offered"] = models.StringsColumn(profile.ServicesOffered)
		state.Fields["target_audience"] = models.StringsColumn(profile.TargetAudience)
		state.Fields["hiring_timeline"] = profile.HiringTimeline
	case 3:
		state.Fields["logo_url"] = profile.LogoURL
	case 4:
		state.Fields["terms_accepted"] = profile.TermsAcceptedAt != nil
		state.Fields["onboarding_completed"] = profile.OnboardingCompleted
	}

	return state, nil
}

func (s *OnboardingServiceImpl) prefillFromPending(db *gorm.DB, userID string, state *dto.StepState) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return
	}
	pending, err := s.pendingRepo.FindByEmail(db, user.Email)
	if err != nil {
		return
	}
	state.Fields["first_name"] = pending.FirstName
	state.Fields["last_name"] = pending.LastName
	if pending.OrganizationName != "" {
		state.Fields["organization_name"] = pending.OrganizationName
	}
}

// ==========================
// Job seeker submits
// ==========================

// SubmitJobSeekerStep1 creates both profile rows in one transaction when
// absent (the staged registration row is consumed afterwards), or updates the
// step's fields when revisited.
func (s *OnboardingServiceImpl) SubmitJobSeekerStep1(db *gorm.DB, userID string, req *dto.JobSeekerStep1Request) (*dto.StepResult, error) {
	location, err := models.JSONColumn(req.Location)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.profileRepo.FindUserProfileByUserID(tx, userID)
		switch {
		case err == nil:
			if existing.UserType != models.UserTypeJobSeeker {
				return apperrors.ErrUserTypeImmutable
			}
			if err := s.profileRepo.UpdateUserProfileFields(tx, userID, map[string]interface{}{
				"first_name": req.FirstName,
				"last_name":  req.LastName,
				"phone":      req.Phone,
				"location":   location,
			}); err != nil {
				return err
			}
		case errors.Is(err, repositories.ErrProfileNotFound):
			if err := s.profileRepo.CreateUserProfile(tx, &models.UserProfile{
				UserID:    userID,
				UserType:  models.UserTypeJobSeeker,
				FirstName: req.FirstName,
				LastName:  req.LastName,
				Phone:     req.Phone,
				Location:  location,
			}); err != nil {
				return err
			}
		default:
			return err
		}

		return s.advanceJobSeekerStep(tx, userID, 1, nil)
	})
	if txErr != nil {
		return nil, handleProfileError(txErr)
	}

	result := &dto.StepResult{Step: 1, NextRoute: models.JobSeekerStepRoute(2)}

	// Staging cleanup is secondary: a leftover row is ignored by later reads
	// and swept by the housekeeping worker.
	if err := s.pendingRepo.DeleteByEmail(db, user.Email); err != nil {
		logger.WithError(err).Warn("failed to clear pending registration", "user_id", userID)
		result.Warnings = append(result.Warnings, "pending registration cleanup failed")
	}

	s.audit.Record(db, userID, models.EventOnboardingStep, models.OutcomeSuccess, "job_seeker step 1", "")
	return result, nil
}

func (s *OnboardingServiceImpl) SubmitJobSeekerStep2(db *gorm.DB, userID string, req *dto.JobSeekerStep2Request) (*dto.StepResult, error) {
	education, err := models.JSONColumn(req.Education)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	experience, err := models.JSONColumn(req.WorkExperience)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		return s.advanceJobSeekerStep(tx, userID, 2, map[string]interface{}{
			"education":           education,
			"work_experience":     experience,
			"highest_education":   req.HighestEducation,
			"years_of_experience": req.YearsOfExperience,
		})
	})
	if txErr != nil {
		return nil, handleProfileError(txErr)
	}

	s.audit.Record(db, userID, models.EventOnboardingStep, models.OutcomeSuccess, "job_seeker step 2", "")
	return &dto.StepResult{Step: 2, NextRoute: models.JobSeekerStepRoute(3)}, nil
}

// SubmitJobSeekerStep3 persists preferences and reconciles the skill set as a
// diff-and-patch inside one transaction, then re-triggers recommendations.
func (s *OnboardingServiceImpl) SubmitJobSeekerStep3(db *gorm.DB, userID string, req *dto.JobSeekerStep3Request) (*dto.StepResult, error) {
	fields := map[string]interface{}{
		"willing_to_relocate": req.WillingToRelocate,
	}
	for name, value := range map[string]interface{}{
		"interests":                  req.Interests,
		"preferred_job_types":        req.PreferredJobTypes,
		"preferred_work_environment": req.PreferredWorkEnvironment,
		"preferred_locations":        req.PreferredLocations,
		"salary_expectations":        req.SalaryExpectations,
	} {
		col, err := models.JSONColumn(value)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		fields[name] = col
	}

	desired := make([]models.Skill, 0, len(req.Skills))
	for _, entry := range req.Skills {
		desired = append(desired, *skillFromEntry(userID, entry))
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := s.advanceJobSeekerStep(tx, userID, 3, fields); err != nil {
			return err
		}
		return s.skillRepo.ReplaceForUser(tx, userID, desired)
	})
	if txErr != nil {
		return nil, handleProfileError(txErr)
	}

	result := &dto.StepResult{Step: 3, NextRoute: models.JobSeekerStepRoute(4)}
	if err := s.recService.GenerateAllRecommendations(db, userID); err != nil {
		logger.WithError(err).Warn("recommendation trigger failed", "user_id", userID)
		result.Warnings = append(result.Warnings, recommendationWarning)
	}

	s.audit.Record(db, userID, models.EventOnboardingStep, models.OutcomeSuccess, "job_seeker step 3", "")
	return result, nil
}

func (s *OnboardingServiceImpl) SubmitJobSeekerStep4(db *gorm.DB, userID string, req *dto.JobSeekerStep4Request) (*dto.StepResult, error) {
	txErr := db.Transaction(func(tx *gorm.DB) error {
		return s.advanceJobSeekerStep(tx, userID, 4, map[string]interface{}{
			"has_resume":        req.HasResume,
			"will_upload_later": req.WillUploadLater,
			"resume_url":        req.ResumeURL,
			"resume_filename":   req.ResumeFilename,
		})
	})
	if txErr != nil {
		return nil, handleProfileError(txErr)
	}

	s.audit.Record(db, userID, models.EventOnboardingStep, models.OutcomeSuccess, "job_seeker step 4", "")
	return &dto.StepResult{Step: 4, NextRoute: models.JobSeekerStepRoute(5)}, nil
}

// SubmitJobSeekerStep5 is the terminal step; it requires explicit terms
// acceptance and flips onboarding_completed and profile_completed in the same
// transaction so the two flags cannot be observed split.
func (s *OnboardingServiceImpl) SubmitJobSeekerStep5(db *gorm.DB, userID string, req *dto.JobSeekerStep5Request) (*dto.StepResult, error) {
	if !req.TermsAccepted {
		return nil, apperrors.ErrTermsNotAccepted
	}

	now := time.Now()
	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := s.advanceJobSeekerStep(tx, userID, 5, map[string]interface{}{
			"onboarding_completed": true,
			"terms_accepted_at":    now,
		}); err != nil {
			return err
		}
		return s.profileRepo.UpdateUserProfileFields(tx, userID, map[string]interface{}{
			"profile_completed": true,
		})
	})
	if txErr != nil {
		return nil, handleProfileError(txErr)
	}

	s.audit.Record(db, userID, models.EventOnboardingStep, models.OutcomeSuccess, "job_seeker onboarding completed", "")
	return &dto.StepResult{Step: 5, Completed: true, NextRoute: models.RouteDashboard}, nil
}

// advanceJobSeekerStep writes a step's fields and raises onboarding_step to
// the submitted index. Revisiting an earlier step never lowers the counter.
// A missing row on step >1 is created first (self-healing for rows lost to a
// partial failure on an older write path).
func (s *OnboardingServiceImpl) advanceJobSeekerStep(tx *gorm.DB, userID string, step int, fields map[string]interface{}) error {
	profile, err := s.profileRepo.FindJobSeekerProfileByUserID(tx, userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		if err := s.profileRepo.CreateJobSeekerProfile(tx, &models.JobSeekerProfile{UserID: userID}); err != nil {
			return err
		}
		profile = &models.JobSeekerProfile{UserID: userID}
	} else if err != nil {
		return err
	}

	if fields == nil {
		fields = map[string]interface{}{}
	}
	if step > profile.OnboardingStep {
		fields["onboarding_step"] = step
	}
	if len(fields) == 0 {
		return nil
	}
	return s.profileRepo.UpdateJobSeekerProfileFields(tx, userID, fields)
}

// ==========================
// Partner submits
// ==========================

func (s *OnboardingServiceImpl) SubmitPartnerStep1(db *gorm.DB, userID string, req *dto.PartnerStep1Request) (*dto.StepResult, error) {
	climateFocus, err := models.JSONColumn(req.ClimateFocus)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	var location datatypes.JSON
	if req.Location != nil {
		location, err = models.JSONColumn(req.Location)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleProfileError(err)
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		userFields := map[string]interface{}{
			"organization_name": req.OrganizationName,
			"organization_type": req.OrganizationType,
		}
		if req.FirstName != "" {
			userFields["first_name"] = req.FirstName
		}
		if req.LastName != "" {
			userFields["last_name"] = req.LastName
		}
		if req.Phone != "" {
			userFields["phone"] = req.Phone
		}
		if location != nil {
			userFields["location"] = location
		}

		existing, err := s.profileRepo.FindUserProfileByUserID(tx, userID)
		switch {
		case err == nil:
			if existing.UserType != models.UserTypePartner {
				return apperrors.ErrUserTypeImmutable
			}
			if err := s.profileRepo.UpdateUserProfileFields(tx, userID, userFields); err != nil {
				return err
			}
		case errors.Is(err, repositories.ErrProfileNotFound):
			profile := &models.UserProfile{
				UserID:           userID,
				UserType:         models.UserTypePartner,
				FirstName:        req.FirstName,
				LastName:         req.LastName,
				Phone:            req.Phone,
				OrganizationName: req.OrganizationName,
				OrganizationType: req.OrganizationType,
			}
			profile.Location = location
			if err := s.profileRepo.CreateUserProfile(tx, profile); err != nil {
				return err
			}
		default:
			return err
		}

		return s.advancePartnerStep(tx, userID, 1, map[string]interface{}{
			"organization_name": req.OrganizationName,
			"organization_type": req.OrganizationType,
			"website":           req.Website,
			"description":       req.Description,
			"climate_focus":     climateFocus,
		}, req.OrganizationName)
	})
	if txErr != nil {
		return nil, handleProfileError(txErr)
	}

	result := &dto.StepResult{Step: 1, NextRoute: models.PartnerStepRoute(2)}
	if err := s.pendingRepo.DeleteByEmail(db, user.Email); err != nil {
		logger.WithError(err).Warn("failed to clear pending registration", "user_id", userID)
		result.Warnings = append(result.Warnings, "pending registration cleanup failed")
	}

	s.audit.Record(db, userID, models.EventOnboardingStep, models.OutcomeSuccess, "partner step 1", "")
	return result, nil
}

func (s *OnboardingServiceImpl) SubmitPartnerStep2(db *gorm.DB, userID string, req *dto.PartnerStep2Request) (*dto.StepResult, error) {
	services, err := models.JSONColumn(req.ServicesOffered)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	audience, err := models.JSONColumn(req.TargetAudience)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		return s.advancePartnerStep(tx, userID, 2, map[string]interface{}{
			"services_offered": services,
			"target_audience":  audience,
			"hiring_timeline":  req.HiringTimeline,
		}, "")
	})
	if txErr != nil {
		return nil, handleProfileError(txErr)
	}

	s.audit.Record(db, userID, models.EventOnboardingStep, models.OutcomeSuccess, "partner step 2", "")
	return &dto.StepResult{Step: 2, NextRoute: models.PartnerStepRoute(3)}, nil
}

func (s *OnboardingServiceImpl) SubmitPartnerStep3(db *gorm.DB, userID string, req *dto.PartnerStep3Request) (*dto.StepResult, error) {
	txErr := db.Transaction(func(tx *gorm.DB) error {
		return s.advancePartnerStep(tx, userID, 3, map[string]interface{}{
			"logo_url": req.LogoURL,
		}, "")
	})
	if txErr != nil {
		return nil, handleProfileError(txErr)
	}

	s.audit.Record(db, userID, models.EventOnboardingStep, models.OutcomeSuccess, "partner step 3", "")
	return &dto.StepResult{Step: 3, NextRoute: models.PartnerStepRoute(4)}, nil
}

// SubmitPartnerStep4 is the partner terminal step: terms required, then
// onboarding_completed, verified, and profile_completed all flip in one
// transaction.
func (s *OnboardingServiceImpl) SubmitPartnerStep4(db *gorm.DB, userID string, req *dto.PartnerStep4Request) (*dto.StepResult, error) {
	if !req.TermsAccepted {
		return nil, apperrors.ErrTermsNotAccepted
	}

	now := time.Now()
	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := s.advancePartnerStep(tx, userID, 4, map[string]interface{}{
			"onboarding_completed": true,
			"verified":             true,
			"terms_accepted_at":    now,
		}, ""); err != nil {
			return err
		}
		return s.profileRepo.UpdateUserProfileFields(tx, userID, map[string]interface{}{
			"profile_completed": true,
		})
	})
	if txErr != nil {
		return nil, handleProfileError(txErr)
	}

	s.audit.Record(db, userID, models.EventOnboardingStep, models.OutcomeSuccess, "partner onboarding completed", "")
	return &dto.StepResult{Step: 4, Completed: true, NextRoute: models.RoutePartnerDashboard}, nil
}

// advancePartnerStep mirrors advanceJobSeekerStep for the partner row.
// orgName is only needed when self-healing has to create the row on a step
// past 1, since organization_name is not nullable.
func (s *OnboardingServiceImpl) advancePartnerStep(tx *gorm.DB, userID string, step int, fields map[string]interface{}, orgName string) error {
	profile, err := s.profileRepo.FindPartnerProfileByUserID(tx, userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		if orgName == "" {
			orgName = fmt.Sprintf("organization-%s", userID)
		}
		if err := s.profileRepo.CreatePartnerProfile(tx, &models.PartnerProfile{
			UserID:           userID,
			OrganizationName: orgName,
		}); err != nil {
			return err
		}
		profile = &models.PartnerProfile{UserID: userID}
	} else if err != nil {
		return err
	}

	if fields == nil {
		fields = map[string]interface{}{}
	}
	if step > profile.OnboardingStep {
		fields["onboarding_step"] = step
	}
	if len(fields) == 0 {
		return nil
	}
	return s.profileRepo.UpdatePartnerProfileFields(tx, userID, fields)
}
