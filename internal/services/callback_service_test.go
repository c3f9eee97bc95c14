package services

import (
	"context"
	"testing"
	"time"

	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// flakyProfileRepo fails the generic profile read a set number of times
// before delegating.
type flakyProfileRepo struct {
	repositories.ProfileRepository
	failures int
	reads    int
}

func (r *flakyProfileRepo) FindUserProfileByUserID(db *gorm.DB, userID string) (*models.UserProfile, error) {
	r.reads++
	if r.reads <= r.failures {
		return nil, assert.AnError
	}
	return r.ProfileRepository.FindUserProfileByUserID(db, userID)
}

func newCallbackForTest(notifier *stubNotifier, profileRepo repositories.ProfileRepository) (*CallbackServiceImpl, *[]time.Duration) {
	if profileRepo == nil {
		profileRepo = repositories.NewProfileRepository()
	}
	svc := &CallbackServiceImpl{
		userRepo:    repositories.NewUserRepository(),
		codeRepo:    repositories.NewAuthCodeRepository(),
		profileRepo: profileRepo,
		pendingRepo: repositories.NewPendingRegistrationRepository(),
		notifier:    notifier,
		audit:       NewAuditService(repositories.NewSecurityEventRepository()),
	}

	var slept []time.Duration
	svc.sleep = func(d time.Duration) { slept = append(slept, d) }
	return svc, &slept
}

func mintCode(t *testing.T, db *gorm.DB, userID string) string {
	t.Helper()

	code := &models.AuthCode{
		UserID:    userID,
		Code:      "code-" + userID,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, db.Create(code).Error)
	return code.Code
}

func TestHandleCallback_FirstLoginCreatesProfileFromPending(t *testing.T) {
	db := newTestDB(t)
	notifier := &stubNotifier{}
	svc, _ := newCallbackForTest(notifier, nil)
	user := createTestUser(t, db, "jane@example.com")
	createPendingRegistration(t, db, user.Email, models.UserTypeJobSeeker, "Jane", "Doe", "")
	code := mintCode(t, db, user.ID)

	result := svc.HandleCallback(context.Background(), db, &dto.CallbackRequest{Code: code}, "", "127.0.0.1")
	require.Empty(t, result.Error)
	assert.Equal(t, "/onboarding/job-seeker/step1", result.Redirect)
	assert.NotEmpty(t, result.Token)
	assert.Empty(t, result.Warnings)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, models.UserTypeJobSeeker, profile.UserType)
	assert.Equal(t, "Jane", profile.FirstName)

	var roleCount int64
	db.Model(&models.JobSeekerProfile{}).Where("user_id = ?", user.ID).Count(&roleCount)
	assert.EqualValues(t, 1, roleCount)

	// Welcome sent, staging row consumed.
	assert.Equal(t, []string{user.Email}, notifier.sent)
	var pendingCount int64
	db.Model(&models.PendingRegistration{}).Where("email = ?", user.Email).Count(&pendingCount)
	assert.Zero(t, pendingCount)
}

func TestHandleCallback_MissingPendingDefaultsToJobSeeker(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCallbackForTest(&stubNotifier{}, nil)
	user := createTestUser(t, db, "jane@example.com")
	code := mintCode(t, db, user.ID)

	result := svc.HandleCallback(context.Background(), db, &dto.CallbackRequest{Code: code}, "", "")
	require.Empty(t, result.Error)
	assert.Equal(t, "/onboarding/job-seeker/step1", result.Redirect)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, models.UserTypeJobSeeker, profile.UserType)
}

func TestHandleCallback_PartnerRedirects(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCallbackForTest(&stubNotifier{}, nil)

	cases := []struct {
		name      string
		completed bool
		step      int
		redirect  string
	}{
		{"mid onboarding resumes next step", false, 2, "/onboarding/partner/step3"},
		{"completed lands on dashboard", true, 4, models.RoutePartnerDashboard},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := createTestUser(t, db, tc.name+"@example.com")
			require.NoError(t, db.Create(&models.UserProfile{
				UserID:           user.ID,
				UserType:         models.UserTypePartner,
				ProfileCompleted: tc.completed,
			}).Error)
			require.NoError(t, db.Create(&models.PartnerProfile{
				UserID:           user.ID,
				OrganizationName: "Solar Co",
				OnboardingStep:   tc.step,
			}).Error)
			code := mintCode(t, db, user.ID)

			result := svc.HandleCallback(context.Background(), db, &dto.CallbackRequest{Code: code}, "", "")
			require.Empty(t, result.Error)
			assert.Equal(t, tc.redirect, result.Redirect)
		})
	}
}

func TestHandleCallback_TransientFetchFailureRetries(t *testing.T) {
	db := newTestDB(t)
	flaky := &flakyProfileRepo{ProfileRepository: repositories.NewProfileRepository(), failures: 2}
	svc, slept := newCallbackForTest(&stubNotifier{}, flaky)
	user := createTestUser(t, db, "jane@example.com")
	require.NoError(t, db.Create(&models.UserProfile{
		UserID:           user.ID,
		UserType:         models.UserTypeJobSeeker,
		ProfileCompleted: true,
	}).Error)
	code := mintCode(t, db, user.ID)

	result := svc.HandleCallback(context.Background(), db, &dto.CallbackRequest{Code: code}, "", "")
	require.Empty(t, result.Error)
	assert.Equal(t, models.RouteDashboard, result.Redirect)

	// Waits grow between attempts.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *slept)
}

func TestHandleCallback_ExhaustedFetchTreatedAsAbsent(t *testing.T) {
	db := newTestDB(t)
	flaky := &flakyProfileRepo{ProfileRepository: repositories.NewProfileRepository(), failures: 10}
	svc, _ := newCallbackForTest(&stubNotifier{}, flaky)
	user := createTestUser(t, db, "jane@example.com")
	code := mintCode(t, db, user.ID)

	result := svc.HandleCallback(context.Background(), db, &dto.CallbackRequest{Code: code}, "", "")
	require.Empty(t, result.Error)
	assert.Equal(t, "/onboarding/job-seeker/step1", result.Redirect)
	assert.Contains(t, result.Warnings, "profile fetch degraded")
	assert.Equal(t, 3, flaky.reads)
}

func TestHandleCallback_CodeFailureFallsBackToSession(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCallbackForTest(&stubNotifier{}, nil)
	user := createTestUser(t, db, "jane@example.com")
	require.NoError(t, db.Create(&models.UserProfile{
		UserID:           user.ID,
		UserType:         models.UserTypeJobSeeker,
		ProfileCompleted: true,
	}).Error)

	result := svc.HandleCallback(context.Background(), db, &dto.CallbackRequest{Code: "bogus"}, user.ID, "")
	require.Empty(t, result.Error)
	assert.Equal(t, models.RouteDashboard, result.Redirect)
}

func TestHandleCallback_NoSession(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCallbackForTest(&stubNotifier{}, nil)

	result := svc.HandleCallback(context.Background(), db, &dto.CallbackRequest{Code: "bogus"}, "", "")
	assert.Equal(t, "No active session", result.Error)
	assert.Equal(t, "retry", result.Action)
	assert.Equal(t, 1000, result.RetryDelay)
	assert.Equal(t, 1, result.RetryCount)
}

func TestHandleCallback_ConsumedCodeCannotBeReplayed(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCallbackForTest(&stubNotifier{}, nil)
	user := createTestUser(t, db, "jane@example.com")
	code := mintCode(t, db, user.ID)

	first := svc.HandleCallback(context.Background(), db, &dto.CallbackRequest{Code: code}, "", "")
	require.Empty(t, first.Error)

	second := svc.HandleCallback(context.Background(), db, &dto.CallbackRequest{Code: code}, "", "")
	assert.Equal(t, "No active session", second.Error)
}

func TestHandleCallback_ProviderErrorRetryPolicy(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCallbackForTest(&stubNotifier{}, nil)

	cases := []struct {
		retryCount int
		action     string
		delay      int
		nextCount  int
	}{
		{0, "retry", 1000, 1},
		{1, "retry", 2000, 2},
		{2, "reload", 0, 0},
		{5, "reload", 0, 0},
	}
	for _, tc := range cases {
		result := svc.HandleCallback(context.Background(), db, &dto.CallbackRequest{
			Error:            "access_denied",
			ErrorDescription: "user cancelled",
			RetryCount:       tc.retryCount,
		}, "", "")

		assert.Equal(t, "access_denied: user cancelled", result.Error)
		assert.Equal(t, tc.action, result.Action, "retry_count=%d", tc.retryCount)
		assert.Equal(t, tc.delay, result.RetryDelay, "retry_count=%d", tc.retryCount)
		assert.Equal(t, tc.nextCount, result.RetryCount, "retry_count=%d", tc.retryCount)
	}
}

func TestHandleCallback_ExpiredContextRedirectsToLogin(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCallbackForTest(&stubNotifier{}, nil)
	user := createTestUser(t, db, "jane@example.com")
	code := mintCode(t, db, user.ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := svc.HandleCallback(ctx, db, &dto.CallbackRequest{Code: code}, "", "")
	assert.Equal(t, models.RouteLogin, result.Redirect)
	assert.Empty(t, result.Token)
}

func TestHandleCallback_WelcomeFailureIsWarningOnly(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCallbackForTest(&stubNotifier{err: assert.AnError}, nil)
	user := createTestUser(t, db, "jane@example.com")
	code := mintCode(t, db, user.ID)

	result := svc.HandleCallback(context.Background(), db, &dto.CallbackRequest{Code: code}, "", "")
	require.Empty(t, result.Error)
	assert.Contains(t, result.Warnings, "welcome notification failed")
	assert.NotEmpty(t, result.Token)
}
