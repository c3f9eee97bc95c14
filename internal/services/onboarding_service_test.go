package services

import (
	"testing"

	"climatework_backend/internal/models"
	"climatework_backend/internal/services/dto"
	"climatework_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobSeekerStep1(name string) *dto.JobSeekerStep1Request {
	return &dto.JobSeekerStep1Request{
		FirstName: name,
		LastName:  "Doe",
		Phone:     "+1-617-555-0100",
		Location:  &models.Location{City: "Boston", State: "Massachusetts", Zip: "02108"},
	}
}

func TestJobSeekerStep1_CreatesBothProfileRows(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingForTest(&stubRecommendationService{})
	user := createTestUser(t, db, "jane@example.com")
	createPendingRegistration(t, db, user.Email, models.UserTypeJobSeeker, "Jane", "Doe", "")

	result, err := svc.SubmitJobSeekerStep1(db, user.ID, jobSeekerStep1("Jane"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Step)
	assert.Equal(t, "/onboarding/job-seeker/step2", result.NextRoute)
	assert.False(t, result.Completed)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, models.UserTypeJobSeeker, profile.UserType)
	assert.Equal(t, "Jane", profile.FirstName)
	assert.Equal(t, "Boston", profile.LocationValue().City)
	assert.False(t, profile.ProfileCompleted)

	var roleProfile models.JobSeekerProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&roleProfile).Error)
	assert.Equal(t, 1, roleProfile.OnboardingStep)
	assert.False(t, roleProfile.OnboardingCompleted)

	// The staged registration row is consumed.
	var count int64
	db.Model(&models.PendingRegistration{}).Where("email = ?", user.Email).Count(&count)
	assert.Zero(t, count)
}

func TestJobSeekerStep1_RejectsRoleChange(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingForTest(&stubRecommendationService{})
	user := createTestUser(t, db, "partner@example.com")
	require.NoError(t, db.Create(&models.UserProfile{
		UserID:   user.ID,
		UserType: models.UserTypePartner,
	}).Error)

	_, err := svc.SubmitJobSeekerStep1(db, user.ID, jobSeekerStep1("Jane"))
	assert.ErrorIs(t, err, apperrors.ErrUserTypeImmutable)
}

func TestJobSeekerSteps_AdvanceAndNextRoute(t *testing.T) {
	db := newTestDB(t)
	rec := &stubRecommendationService{}
	svc := newOnboardingForTest(rec)
	user := createTestUser(t, db, "jane@example.com")

	_, err := svc.SubmitJobSeekerStep1(db, user.ID, jobSeekerStep1("Jane"))
	require.NoError(t, err)

	res2, err := svc.SubmitJobSeekerStep2(db, user.ID, &dto.JobSeekerStep2Request{
		Education:         []dto.EducationEntry{{School: "MIT", Degree: "BS", Field: "Environmental Engineering"}},
		HighestEducation:  "bachelors",
		YearsOfExperience: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "/onboarding/job-seeker/step3", res2.NextRoute)

	res3, err := svc.SubmitJobSeekerStep3(db, user.ID, &dto.JobSeekerStep3Request{
		Skills:            []dto.SkillEntry{{Name: "GIS", Proficiency: "advanced"}},
		Interests:         []string{"solar"},
		PreferredJobTypes: []string{"full_time"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/onboarding/job-seeker/step4", res3.NextRoute)
	assert.Equal(t, 1, rec.calls)

	res4, err := svc.SubmitJobSeekerStep4(db, user.ID, &dto.JobSeekerStep4Request{WillUploadLater: true})
	require.NoError(t, err)
	assert.Equal(t, "/onboarding/job-seeker/step5", res4.NextRoute)

	// Completion flags stay down until the terminal step.
	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.False(t, profile.ProfileCompleted)

	res5, err := svc.SubmitJobSeekerStep5(db, user.ID, &dto.JobSeekerStep5Request{TermsAccepted: true})
	require.NoError(t, err)
	assert.True(t, res5.Completed)
	assert.Equal(t, models.RouteDashboard, res5.NextRoute)

	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.True(t, profile.ProfileCompleted)

	var roleProfile models.JobSeekerProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&roleProfile).Error)
	assert.True(t, roleProfile.OnboardingCompleted)
	assert.Equal(t, 5, roleProfile.OnboardingStep)
	assert.NotNil(t, roleProfile.TermsAcceptedAt)
}

func TestJobSeekerStep5_RequiresTerms(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingForTest(&stubRecommendationService{})
	user := createTestUser(t, db, "jane@example.com")

	_, err := svc.SubmitJobSeekerStep5(db, user.ID, &dto.JobSeekerStep5Request{TermsAccepted: false})
	assert.ErrorIs(t, err, apperrors.ErrTermsNotAccepted)
}

func TestJobSeekerStep_RevisitNeverLowersCounter(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingForTest(&stubRecommendationService{})
	user := createTestUser(t, db, "jane@example.com")

	_, err := svc.SubmitJobSeekerStep1(db, user.ID, jobSeekerStep1("Jane"))
	require.NoError(t, err)
	_, err = svc.SubmitJobSeekerStep2(db, user.ID, &dto.JobSeekerStep2Request{HighestEducation: "masters"})
	require.NoError(t, err)

	// Going back to step 1 updates fields but leaves the counter at 2.
	_, err = svc.SubmitJobSeekerStep1(db, user.ID, jobSeekerStep1("Janet"))
	require.NoError(t, err)

	var roleProfile models.JobSeekerProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&roleProfile).Error)
	assert.Equal(t, 2, roleProfile.OnboardingStep)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, "Janet", profile.FirstName)
}

func TestJobSeekerStep2_SelfHealsMissingRow(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingForTest(&stubRecommendationService{})
	user := createTestUser(t, db, "jane@example.com")

	// No step-1 submit happened, so no role row exists yet.
	res, err := svc.SubmitJobSeekerStep2(db, user.ID, &dto.JobSeekerStep2Request{YearsOfExperience: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Step)

	var roleProfile models.JobSeekerProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&roleProfile).Error)
	assert.Equal(t, 2, roleProfile.OnboardingStep)
	assert.Equal(t, 2, roleProfile.YearsOfExperience)
}

func TestGetStep_PrefillsFromPersistedState(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingForTest(&stubRecommendationService{})
	user := createTestUser(t, db, "jane@example.com")

	_, err := svc.SubmitJobSeekerStep1(db, user.ID, jobSeekerStep1("Jane"))
	require.NoError(t, err)

	state, err := svc.GetStep(db, user.ID, models.UserTypeJobSeeker, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane", state.Fields["first_name"])
	loc, ok := state.Fields["location"].(models.Location)
	require.True(t, ok)
	assert.Equal(t, "Boston", loc.City)
}

func TestGetStep_PrefillsFromPendingBeforeFirstSubmit(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingForTest(&stubRecommendationService{})
	user := createTestUser(t, db, "jane@example.com")
	createPendingRegistration(t, db, user.Email, models.UserTypeJobSeeker, "Jane", "Doe", "")

	state, err := svc.GetStep(db, user.ID, models.UserTypeJobSeeker, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane", state.Fields["first_name"])
	assert.Equal(t, "Doe", state.Fields["last_name"])
}

func TestGetStep_RejectsOutOfRangeStep(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingForTest(&stubRecommendationService{})

	_, err := svc.GetStep(db, "whoever", models.UserTypeJobSeeker, 6)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStep)

	_, err = svc.GetStep(db, "whoever", models.UserTypePartner, 5)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStep)
}

func TestPartnerSteps_TerminalStepVerifies(t *testing.T) {
	db := newTestDB(t)
	svc := newOnboardingForTest(&stubRecommendationService{})
	user := createTestUser(t, db, "org@example.com")
	createPendingRegistration(t, db, user.Email, models.UserTypePartner, "Pat", "Lee", "Solar Co")

	res1, err := svc.SubmitPartnerStep1(db, user.ID, &dto.PartnerStep1Request{
		OrganizationName: "Solar Co",
		OrganizationType: "nonprofit",
		ClimateFocus:     []string{"solar"},
		FirstName:        "Pat",
		LastName:         "Lee",
	})
	require.NoError(t, err)
	assert.Equal(t, "/onboarding/partner/step2", res1.NextRoute)

	_, err = svc.SubmitPartnerStep2(db, user.ID, &dto.PartnerStep2Request{
		ServicesOffered: []string{"training"},
		TargetAudience:  []string{"students"},
		HiringTimeline:  "3_months",
	})
	require.NoError(t, err)

	_, err = svc.SubmitPartnerStep3(db, user.ID, &dto.PartnerStep3Request{})
	require.NoError(t, err)

	var roleProfile models.PartnerProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&roleProfile).Error)
	assert.False(t, roleProfile.Verified)

	res4, err := svc.SubmitPartnerStep4(db, user.ID, &dto.PartnerStep4Request{TermsAccepted: true})
	require.NoError(t, err)
	assert.True(t, res4.Completed)
	assert.Equal(t, models.RoutePartnerDashboard, res4.NextRoute)

	require.NoError(t, db.Where("user_id = ?", user.ID).First(&roleProfile).Error)
	assert.True(t, roleProfile.Verified)
	assert.True(t, roleProfile.OnboardingCompleted)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.True(t, profile.ProfileCompleted)
	assert.Equal(t, "Solar Co", profile.OrganizationName)
}

func TestOnboarding_RecommendationFailureIsWarningOnly(t *testing.T) {
	db := newTestDB(t)
	rec := &stubRecommendationService{err: assert.AnError}
	svc := newOnboardingForTest(rec)
	user := createTestUser(t, db, "jane@example.com")

	_, err := svc.SubmitJobSeekerStep1(db, user.ID, jobSeekerStep1("Jane"))
	require.NoError(t, err)

	res, err := svc.SubmitJobSeekerStep3(db, user.ID, &dto.JobSeekerStep3Request{
		Skills: []dto.SkillEntry{{Name: "GIS"}},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, recommendationWarning)

	// The skill write itself committed.
	var count int64
	db.Model(&models.Skill{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}
