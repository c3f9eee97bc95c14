package services

import (
	"strings"
	"testing"

	"climatework_backend/internal/email"
	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/services/dto"
	"climatework_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthForTest() AuthService {
	return NewAuthService(
		repositories.NewUserRepository(),
		repositories.NewAuthCodeRepository(),
		repositories.NewProfileRepository(),
		repositories.NewPendingRegistrationRepository(),
		email.NoopSender{},
		NewAuditService(repositories.NewSecurityEventRepository()),
	)
}

func registerRequest(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     email,
		Password:  "secret-pass",
		UserType:  "job_seeker",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func TestRegister_StagesPendingRegistration(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthForTest()

	resp, err := svc.Register(db, registerRequest("Jane@Example.com"), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resp.Email)
	assert.Equal(t, models.RouteRegisterSuccess, resp.Redirect)

	var user models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.VerificationToken)
	assert.NotEqual(t, "secret-pass", user.PasswordHash)

	var pending models.PendingRegistration
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&pending).Error)
	assert.Equal(t, models.UserTypeJobSeeker, pending.UserType)
	assert.Equal(t, "Jane", pending.FirstName)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthForTest()

	_, err := svc.Register(db, registerRequest("jane@example.com"), "")
	require.NoError(t, err)

	_, err = svc.Register(db, registerRequest("jane@example.com"), "")
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegister_RejectsWeakPasswordAndAdminRole(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthForTest()

	weak := registerRequest("jane@example.com")
	weak.Password = "short"
	_, err := svc.Register(db, weak, "")
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	admin := registerRequest("admin@example.com")
	admin.UserType = "admin"
	_, err = svc.Register(db, admin, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserType)
}

func TestVerifyEmail_MintsExchangeCode(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthForTest()

	_, err := svc.Register(db, registerRequest("jane@example.com"), "")
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)

	resp, err := svc.VerifyEmail(db, user.VerificationToken)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.Redirect, "/auth/callback?code="))

	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.True(t, user.IsVerified)

	code := strings.TrimPrefix(resp.Redirect, "/auth/callback?code=")
	var authCode models.AuthCode
	require.NoError(t, db.Where("code = ?", code).First(&authCode).Error)
	assert.Equal(t, user.ID, authCode.UserID)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthForTest()

	_, err := svc.VerifyEmail(db, "no-such-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestLogin_UnverifiedDenied(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthForTest()

	_, err := svc.Register(db, registerRequest("jane@example.com"), "")
	require.NoError(t, err)

	_, err = svc.Login(db, &dto.LoginRequest{Email: "jane@example.com", Password: "secret-pass"}, "")
	assert.ErrorIs(t, err, apperrors.ErrUserNotVerified)
}

func TestLogin_BadPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthForTest()

	_, err := svc.Register(db, registerRequest("jane@example.com"), "")
	require.NoError(t, err)

	_, err = svc.Login(db, &dto.LoginRequest{Email: "jane@example.com", Password: "wrong"}, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(db, &dto.LoginRequest{Email: "nobody@example.com", Password: "wrong"}, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_RedirectFollowsRoleState(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthForTest()

	_, err := svc.Register(db, registerRequest("jane@example.com"), "")
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)
	_, err = svc.VerifyEmail(db, user.VerificationToken)
	require.NoError(t, err)

	// No profile row yet: default to the start of job-seeker onboarding.
	resp, err := svc.Login(db, &dto.LoginRequest{Email: "jane@example.com", Password: "secret-pass"}, "")
	require.NoError(t, err)
	assert.Equal(t, "/onboarding/job-seeker/step1", resp.Redirect)
	assert.NotEmpty(t, resp.Token)

	// Mid-onboarding: resume at the step after the last persisted one.
	require.NoError(t, db.Create(&models.UserProfile{
		UserID:   user.ID,
		UserType: models.UserTypeJobSeeker,
	}).Error)
	require.NoError(t, db.Create(&models.JobSeekerProfile{
		UserID:         user.ID,
		OnboardingStep: 3,
	}).Error)

	resp, err = svc.Login(db, &dto.LoginRequest{Email: "jane@example.com", Password: "secret-pass"}, "")
	require.NoError(t, err)
	assert.Equal(t, "/onboarding/job-seeker/step4", resp.Redirect)

	// Completed: straight to the dashboard.
	require.NoError(t, db.Model(&models.UserProfile{}).
		Where("user_id = ?", user.ID).
		Update("profile_completed", true).Error)

	resp, err = svc.Login(db, &dto.LoginRequest{Email: "jane@example.com", Password: "secret-pass"}, "")
	require.NoError(t, err)
	assert.Equal(t, models.RouteDashboard, resp.Redirect)
}

func TestLogin_SuspendedDenied(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthForTest()

	_, err := svc.Register(db, registerRequest("jane@example.com"), "")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "jane@example.com").
		Updates(map[string]interface{}{"is_verified": true, "status": models.UserStatusSuspended}).Error)

	_, err = svc.Login(db, &dto.LoginRequest{Email: "jane@example.com", Password: "secret-pass"}, "")
	assert.ErrorIs(t, err, apperrors.ErrUserSuspended)
}
