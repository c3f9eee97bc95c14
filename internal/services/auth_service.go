package services

import (
	"errors"
	"strings"
	"time"

	"climatework_backend/internal/auth"
	"climatework_backend/internal/email"
	"climatework_backend/internal/logger"
	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/services/dto"
	"climatework_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	pendingRegistrationTTL = 24 * time.Hour
	exchangeCodeTTL        = 10 * time.Minute
)

// AuthService owns registration, login, and email verification. Registration
// stages the form data in a PendingRegistration row; the profile rows
// themselves are created later by the auth callback or onboarding step 1.
type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest, ip string) (*dto.RegisterResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest, ip string) (*dto.LoginResponse, error)
	VerifyEmail(db *gorm.DB, token string) (*dto.VerifyEmailResponse, error)
}

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	codeRepo    repositories.AuthCodeRepository
	profileRepo repositories.ProfileRepository
	pendingRepo repositories.PendingRegistrationRepository
	sender      email.Sender
	audit       AuditService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	codeRepo repositories.AuthCodeRepository,
	profileRepo repositories.ProfileRepository,
	pendingRepo repositories.PendingRegistrationRepository,
	sender email.Sender,
	audit AuditService,
) AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		codeRepo:    codeRepo,
		profileRepo: profileRepo,
		pendingRepo: pendingRepo,
		sender:      sender,
		audit:       audit,
	}
}

func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest, ip string) (*dto.RegisterResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	userType := models.UserType(req.UserType)
	if !models.ValidUserType(userType) || userType == models.UserTypeAdmin {
		return nil, apperrors.ErrInvalidUserType
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	user := &models.User{
		Email:             emailAddr,
		PasswordHash:      hash,
		Status:            models.UserStatusPending,
		VerificationToken: auth.GenerateOpaqueToken(),
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		return s.pendingRepo.Upsert(tx, &models.PendingRegistration{
			Email:             emailAddr,
			UserType:          userType,
			FirstName:         req.FirstName,
			LastName:          req.LastName,
			OrganizationName:  req.OrganizationName,
			ConfirmationEmail: emailAddr,
			ExpiresAt:         time.Now().Add(pendingRegistrationTTL),
		})
	})
	if txErr != nil {
		if errors.Is(txErr, repositories.ErrUserAlreadyExists) {
			s.audit.Record(db, "", models.EventRegistration, models.OutcomeFailure, "email already registered", ip)
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(txErr)
	}

	// Verification delivery is best-effort: the token survives in the user
	// row and a resend can pick it up.
	if err := s.sender.SendVerification(emailAddr, user.VerificationToken); err != nil {
		logger.WithError(err).Warn("verification email failed", "user_id", user.ID)
	}

	s.audit.Record(db, user.ID, models.EventRegistration, models.OutcomeSuccess, string(userType), ip)

	return &dto.RegisterResponse{
		Email:    emailAddr,
		UserType: string(userType),
		Redirect: models.RouteRegisterSuccess,
	}, nil
}

// VerifyEmail flips the user active and mints the one-time exchange code the
// auth callback consumes.
func (s *AuthServiceImpl) VerifyEmail(db *gorm.DB, token string) (*dto.VerifyEmailResponse, error) {
	user, err := s.userRepo.FindByVerificationToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	code := &models.AuthCode{
		UserID:    user.ID,
		Code:      auth.GenerateOpaqueToken(),
		ExpiresAt: time.Now().Add(exchangeCodeTTL),
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.VerifyUser(tx, user.ID); err != nil {
			return err
		}
		return s.codeRepo.Create(tx, code)
	})
	if txErr != nil {
		return nil, apperrors.InternalError(txErr)
	}

	return &dto.VerifyEmailResponse{
		Redirect: "/auth/callback?code=" + code.Code,
	}, nil
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest, ip string) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.audit.Record(db, "", models.EventLogin, models.OutcomeFailure, "unknown email", ip)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.audit.Record(db, user.ID, models.EventLogin, models.OutcomeFailure, "bad password", ip)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, apperrors.ErrUserNotVerified
	}
	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrUserSuspended
	}

	// Route by role state. An identity without a profile row lands on the
	// callback path's default: job-seeker onboarding.
	state := models.RoleState{Type: models.UserTypeJobSeeker}
	profile, err := s.profileRepo.FindUserProfileByUserID(db, user.ID)
	if err == nil {
		state.Type = profile.UserType
		state.ProfileCompleted = profile.ProfileCompleted
		state.OnboardingStep = s.onboardingStep(db, profile)
	} else if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.InternalError(err)
	}

	token, err := auth.GenerateToken(user.ID, string(state.Type))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(db, user.ID, models.EventLogin, models.OutcomeSuccess, "", ip)

	return &dto.LoginResponse{
		Token:    token,
		UserID:   user.ID,
		UserType: string(state.Type),
		Redirect: state.LandingRoute(),
	}, nil
}

func (s *AuthServiceImpl) onboardingStep(db *gorm.DB, profile *models.UserProfile) int {
	switch profile.UserType {
	case models.UserTypeJobSeeker:
		if p, err := s.profileRepo.FindJobSeekerProfileByUserID(db, profile.UserID); err == nil {
			return p.OnboardingStep
		}
	case models.UserTypePartner:
		if p, err := s.profileRepo.FindPartnerProfileByUserID(db, profile.UserID); err == nil {
			return p.OnboardingStep
		}
	}
	return 0
}
