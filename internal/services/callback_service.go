package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"climatework_backend/internal/auth"
	"climatework_backend/internal/logger"
	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/services/dto"

	"gorm.io/gorm"
)

const (
	// profileFetchAttempts caps the bounded retry around the profile read;
	// the waits between attempts grow 1s, 2s.
	profileFetchAttempts = 3

	// maxSoftRetries is how many client-driven retries are offered before
	// the response instructs a full reload.
	maxSoftRetries = 2
)

// CallbackService reconciles the post-authentication redirect: it exchanges
// the one-time code, establishes what profile state exists, creates missing
// rows from staged registration data, and computes the redirect. The result
// is always terminal: either a redirect or a retryable error, never a hang.
type CallbackService interface {
	// HandleCallback processes a callback. sessionUserID is the identity of
	// an already-authenticated caller, if any; it stands in when the code
	// exchange fails but a session survives.
	HandleCallback(ctx context.Context, db *gorm.DB, req *dto.CallbackRequest, sessionUserID, ip string) *dto.CallbackResult
}

type CallbackServiceImpl struct {
	userRepo    repositories.UserRepository
	codeRepo    repositories.AuthCodeRepository
	profileRepo repositories.ProfileRepository
	pendingRepo repositories.PendingRegistrationRepository
	notifier    WelcomeNotifier
	audit       AuditService

	// sleep is swapped out in tests to keep the backoff instant.
	sleep func(time.Duration)
}

func NewCallbackService(
	userRepo repositories.UserRepository,
	codeRepo repositories.AuthCodeRepository,
	profileRepo repositories.ProfileRepository,
	pendingRepo repositories.PendingRegistrationRepository,
	notifier WelcomeNotifier,
	audit AuditService,
) CallbackService {
	return &CallbackServiceImpl{
		userRepo:    userRepo,
		codeRepo:    codeRepo,
		profileRepo: profileRepo,
		pendingRepo: pendingRepo,
		notifier:    notifier,
		audit:       audit,
		sleep:       time.Sleep,
	}
}

func (s *CallbackServiceImpl) HandleCallback(ctx context.Context, db *gorm.DB, req *dto.CallbackRequest, sessionUserID, ip string) *dto.CallbackResult {
	// An error parameter from the provider is terminal; the retry budget
	// applies to it like any other callback failure.
	if req.Error != "" {
		detail := req.Error
		if req.ErrorDescription != "" {
			detail = fmt.Sprintf("%s: %s", req.Error, req.ErrorDescription)
		}
		s.audit.Record(db, sessionUserID, models.EventAuthCallback, models.OutcomeFailure, detail, ip)
		return failureResult(detail, req.RetryCount)
	}

	// Step 1: code exchange. Failure here is non-fatal; a surviving session
	// still identifies the user.
	userID := sessionUserID
	if req.Code != "" {
		code, err := s.codeRepo.Consume(db, req.Code)
		if err != nil {
			logger.CtxWithError(ctx, "exchange code consume failed", err)
		} else {
			userID = code.UserID
		}
	}

	if userID == "" {
		s.audit.Record(db, "", models.EventAuthCallback, models.OutcomeFailure, "no active session", ip)
		return failureResult("No active session", req.RetryCount)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		s.audit.Record(db, userID, models.EventAuthCallback, models.OutcomeFailure, "user lookup failed", ip)
		return failureResult("No active session", req.RetryCount)
	}

	result := &dto.CallbackResult{}

	// Step 2: bounded profile fetch. A definitive not-found short-circuits;
	// transient errors retry with growing waits. Exhausting the budget is
	// treated as "no profile".
	profile, fetchErr := s.fetchProfile(ctx, db, userID)
	if ctx.Err() != nil {
		// The caller's loading guard expired; bail out to login rather than
		// leave the client hanging.
		return &dto.CallbackResult{Redirect: models.RouteLogin, Warnings: []string{"callback timed out"}}
	}
	if fetchErr != nil {
		logger.CtxWithError(ctx, "profile fetch exhausted retries, assuming absent", fetchErr)
		result.Warnings = append(result.Warnings, "profile fetch degraded")
	}

	// Step 3: first login for this identity. Create the profile rows from
	// staged registration data.
	if profile == nil {
		profile, err = s.createProfileFromPending(db, user)
		if err != nil {
			s.audit.Record(db, userID, models.EventAuthCallback, models.OutcomeFailure, "profile create failed", ip)
			return failureResult("Failed to set up your account", req.RetryCount)
		}

		if err := s.notifier.SendWelcome(user.Email, profile.FirstName, string(profile.UserType)); err != nil {
			logger.CtxWithError(ctx, "welcome notification failed", err)
			result.Warnings = append(result.Warnings, "welcome notification failed")
		}
		if err := s.pendingRepo.DeleteByEmail(db, user.Email); err != nil {
			logger.CtxWithError(ctx, "pending registration cleanup failed", err)
			result.Warnings = append(result.Warnings, "pending registration cleanup failed")
		}
		s.audit.Record(db, userID, models.EventProfileCreated, models.OutcomeSuccess, string(profile.UserType), ip)
	}

	// Step 4: route by role state and mint the session.
	state := s.roleState(db, profile)
	result.Redirect = state.LandingRoute()

	token, err := auth.GenerateToken(user.ID, string(profile.UserType))
	if err != nil {
		logger.CtxWithError(ctx, "session token mint failed", err)
		return failureResult("Failed to establish session", req.RetryCount)
	}
	result.Token = token

	s.audit.Record(db, userID, models.EventAuthCallback, models.OutcomeSuccess, result.Redirect, ip)
	return result
}

// fetchProfile retries transient read failures. nil, nil means the profile
// definitively does not exist.
func (s *CallbackServiceImpl) fetchProfile(ctx context.Context, db *gorm.DB, userID string) (*models.UserProfile, error) {
	var lastErr error
	for attempt := 1; attempt <= profileFetchAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		profile, err := s.profileRepo.FindUserProfileByUserID(db, userID)
		if err == nil {
			return profile, nil
		}
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, nil
		}

		lastErr = err
		if attempt < profileFetchAttempts {
			s.sleep(time.Duration(attempt) * time.Second)
		}
	}
	return nil, lastErr
}

// createProfileFromPending creates the generic and role-specific rows in one
// transaction. Missing staging data falls back to a job-seeker shell profile
// that onboarding step 1 will fill in.
func (s *CallbackServiceImpl) createProfileFromPending(db *gorm.DB, user *models.User) (*models.UserProfile, error) {
	userType := models.UserTypeJobSeeker
	var firstName, lastName, orgName string

	pending, err := s.pendingRepo.FindByEmail(db, user.Email)
	if err == nil {
		userType = pending.UserType
		firstName = pending.FirstName
		lastName = pending.LastName
		orgName = pending.OrganizationName
	} else if !errors.Is(err, repositories.ErrPendingRegistrationNotFound) {
		return nil, err
	}

	profile := &models.UserProfile{
		UserID:           user.ID,
		UserType:         userType,
		FirstName:        firstName,
		LastName:         lastName,
		OrganizationName: orgName,
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := s.profileRepo.CreateUserProfile(tx, profile); err != nil {
			return err
		}
		switch userType {
		case models.UserTypeJobSeeker:
			return s.profileRepo.CreateJobSeekerProfile(tx, &models.JobSeekerProfile{UserID: user.ID})
		case models.UserTypePartner:
			if orgName == "" {
				orgName = user.Email
			}
			return s.profileRepo.CreatePartnerProfile(tx, &models.PartnerProfile{
				UserID:           user.ID,
				OrganizationName: orgName,
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return profile, nil
}

// roleState folds the role-specific progress into the shared redirect
// abstraction. Read failures degrade to step zero, which routes to step 1.
func (s *CallbackServiceImpl) roleState(db *gorm.DB, profile *models.UserProfile) models.RoleState {
	state := models.RoleState{
		Type:             profile.UserType,
		ProfileCompleted: profile.ProfileCompleted,
	}

	switch profile.UserType {
	case models.UserTypeJobSeeker:
		if roleProfile, err := s.profileRepo.FindJobSeekerProfileByUserID(db, profile.UserID); err == nil {
			state.OnboardingStep = roleProfile.OnboardingStep
		}
	case models.UserTypePartner:
		if roleProfile, err := s.profileRepo.FindPartnerProfileByUserID(db, profile.UserID); err == nil {
			state.OnboardingStep = roleProfile.OnboardingStep
		}
	}
	return state
}

// failureResult wraps an error message with the client retry policy: soft
// retries with a growing delay, then a full reload.
func failureResult(message string, retryCount int) *dto.CallbackResult {
	next := retryCount + 1
	if next > maxSoftRetries {
		return &dto.CallbackResult{
			Error:  message,
			Action: "reload",
		}
	}
	return &dto.CallbackResult{
		Error:      message,
		Action:     "retry",
		RetryDelay: 1000 * next,
		RetryCount: next,
	}
}
