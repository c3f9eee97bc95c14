package services

import (
	"testing"

	"climatework_backend/internal/models"
	"climatework_backend/internal/services/dto"
	"climatework_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedJobSeeker creates a user with both profile rows and returns the user id.
func seedJobSeeker(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()

	user := createTestUser(t, db, email)
	require.NoError(t, db.Create(&models.UserProfile{
		UserID:    user.ID,
		UserType:  models.UserTypeJobSeeker,
		FirstName: "Jane",
		LastName:  "Doe",
	}).Error)
	require.NoError(t, db.Create(&models.JobSeekerProfile{UserID: user.ID}).Error)
	return user.ID
}

func strPtr(s string) *string { return &s }

func TestUpdateUserProfile_PhoneDoesNotTrigger(t *testing.T) {
	db := newTestDB(t)
	rec := &stubRecommendationService{}
	svc := newProfileForTest(rec)
	userID := seedJobSeeker(t, db, "jane@example.com")

	outcome, err := svc.UpdateUserProfile(db, userID, &dto.UpdateUserProfileRequest{
		Phone: strPtr("+1-617-555-0100"),
	})
	require.NoError(t, err)
	assert.Equal(t, dto.MutationApplied, outcome.Status)
	assert.Zero(t, rec.calls)
}

func TestUpdateUserProfile_LocationTriggers(t *testing.T) {
	db := newTestDB(t)
	rec := &stubRecommendationService{}
	svc := newProfileForTest(rec)
	userID := seedJobSeeker(t, db, "jane@example.com")

	outcome, err := svc.UpdateUserProfile(db, userID, &dto.UpdateUserProfileRequest{
		Location: &models.Location{City: "Denver", State: "Colorado"},
	})
	require.NoError(t, err)
	assert.Equal(t, dto.MutationApplied, outcome.Status)
	assert.Equal(t, 1, rec.calls)

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", userID).First(&profile).Error)
	assert.Equal(t, "Denver", profile.LocationValue().City)
}

func TestUpdateUserProfile_MissingRow(t *testing.T) {
	db := newTestDB(t)
	svc := newProfileForTest(&stubRecommendationService{})

	outcome, err := svc.UpdateUserProfile(db, "no-such-user", &dto.UpdateUserProfileRequest{
		Phone: strPtr("x"),
	})
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
	assert.Equal(t, dto.MutationFailed, outcome.Status)
}

func TestUpdateJobSeekerProfile_RelevantFieldTriggers(t *testing.T) {
	db := newTestDB(t)
	rec := &stubRecommendationService{}
	svc := newProfileForTest(rec)
	userID := seedJobSeeker(t, db, "jane@example.com")

	outcome, err := svc.UpdateJobSeekerProfile(db, userID, &dto.UpdateJobSeekerProfileRequest{
		PreferredJobTypes: []string{"full_time", "contract"},
	})
	require.NoError(t, err)
	assert.Equal(t, dto.MutationApplied, outcome.Status)
	assert.Equal(t, 1, rec.calls)
}

func TestUpdateJobSeekerProfile_IrrelevantFieldDoesNotTrigger(t *testing.T) {
	db := newTestDB(t)
	rec := &stubRecommendationService{}
	svc := newProfileForTest(rec)
	userID := seedJobSeeker(t, db, "jane@example.com")

	outcome, err := svc.UpdateJobSeekerProfile(db, userID, &dto.UpdateJobSeekerProfileRequest{
		Interests: []string{"solar"},
	})
	require.NoError(t, err)
	assert.Equal(t, dto.MutationApplied, outcome.Status)
	assert.Zero(t, rec.calls)
}

func TestMutation_TriggerFailureIsWarningNotError(t *testing.T) {
	db := newTestDB(t)
	rec := &stubRecommendationService{err: assert.AnError}
	svc := newProfileForTest(rec)
	userID := seedJobSeeker(t, db, "jane@example.com")

	relocate := true
	outcome, err := svc.UpdateJobSeekerProfile(db, userID, &dto.UpdateJobSeekerProfileRequest{
		WillingToRelocate: &relocate,
	})
	require.NoError(t, err)
	assert.Equal(t, dto.MutationAppliedWithWarnings, outcome.Status)
	assert.Contains(t, outcome.Warnings, recommendationWarning)

	// The primary write committed regardless.
	var profile models.JobSeekerProfile
	require.NoError(t, db.Where("user_id = ?", userID).First(&profile).Error)
	assert.True(t, profile.WillingToRelocate)
}

func TestUpdateUserSkills_AddPreservesExisting(t *testing.T) {
	db := newTestDB(t)
	rec := &stubRecommendationService{}
	svc := newProfileForTest(rec)
	userID := seedJobSeeker(t, db, "jane@example.com")
	require.NoError(t, db.Create(&models.Skill{
		UserID: userID, Name: "GIS", Proficiency: "advanced", Verified: true,
	}).Error)

	outcome, err := svc.UpdateUserSkills(db, userID, &dto.UpdateSkillsRequest{
		Op: dto.SkillsOpAdd,
		Skills: []dto.SkillEntry{
			{Name: "GIS", Proficiency: "beginner"},
			{Name: "Python", Proficiency: "intermediate"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, dto.MutationApplied, outcome.Status)
	assert.Equal(t, 1, rec.calls)

	// add never overwrites: the existing GIS row keeps its proficiency.
	var gis models.Skill
	require.NoError(t, db.Where("user_id = ? AND name = ?", userID, "GIS").First(&gis).Error)
	assert.Equal(t, "advanced", gis.Proficiency)
	assert.True(t, gis.Verified)

	var count int64
	db.Model(&models.Skill{}).Where("user_id = ?", userID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestUpdateUserSkills_UpdateKeepsVerifiedFlag(t *testing.T) {
	db := newTestDB(t)
	svc := newProfileForTest(&stubRecommendationService{})
	userID := seedJobSeeker(t, db, "jane@example.com")
	require.NoError(t, db.Create(&models.Skill{
		UserID: userID, Name: "GIS", Proficiency: "beginner", Verified: true,
	}).Error)

	outcome, err := svc.UpdateUserSkills(db, userID, &dto.UpdateSkillsRequest{
		Op:     dto.SkillsOpUpdate,
		Skills: []dto.SkillEntry{{Name: "GIS", Proficiency: "advanced"}},
	})
	require.NoError(t, err)
	assert.Equal(t, dto.MutationApplied, outcome.Status)

	var gis models.Skill
	require.NoError(t, db.Where("user_id = ? AND name = ?", userID, "GIS").First(&gis).Error)
	assert.Equal(t, "advanced", gis.Proficiency)
	assert.True(t, gis.Verified)
}

func TestUpdateUserSkills_RemoveToleratesMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newProfileForTest(&stubRecommendationService{})
	userID := seedJobSeeker(t, db, "jane@example.com")
	require.NoError(t, db.Create(&models.Skill{UserID: userID, Name: "GIS"}).Error)

	outcome, err := svc.UpdateUserSkills(db, userID, &dto.UpdateSkillsRequest{
		Op:     dto.SkillsOpRemove,
		Skills: []dto.SkillEntry{{Name: "GIS"}, {Name: "Fortran"}},
	})
	require.NoError(t, err)
	assert.Equal(t, dto.MutationApplied, outcome.Status)

	var count int64
	db.Model(&models.Skill{}).Where("user_id = ?", userID).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateUserSkills_ReplaceReconcilesSet(t *testing.T) {
	db := newTestDB(t)
	svc := newProfileForTest(&stubRecommendationService{})
	userID := seedJobSeeker(t, db, "jane@example.com")
	require.NoError(t, db.Create(&models.Skill{UserID: userID, Name: "GIS"}).Error)
	require.NoError(t, db.Create(&models.Skill{UserID: userID, Name: "Python"}).Error)

	outcome, err := svc.UpdateUserSkills(db, userID, &dto.UpdateSkillsRequest{
		Op:     dto.SkillsOpReplace,
		Skills: []dto.SkillEntry{{Name: "Python"}, {Name: "SQL"}},
	})
	require.NoError(t, err)
	assert.Equal(t, dto.MutationApplied, outcome.Status)

	skills, err := svc.ListSkills(db, userID)
	require.NoError(t, err)
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"Python", "SQL"}, names)
}

func TestUpdateUserSkills_UnknownOp(t *testing.T) {
	db := newTestDB(t)
	svc := newProfileForTest(&stubRecommendationService{})
	userID := seedJobSeeker(t, db, "jane@example.com")

	outcome, err := svc.UpdateUserSkills(db, userID, &dto.UpdateSkillsRequest{
		Op:     "merge",
		Skills: []dto.SkillEntry{{Name: "GIS"}},
	})
	require.Error(t, err)
	assert.Equal(t, dto.MutationFailed, outcome.Status)
}

func TestSetResume_FlipsUploadFlags(t *testing.T) {
	db := newTestDB(t)
	svc := newProfileForTest(&stubRecommendationService{})
	userID := seedJobSeeker(t, db, "jane@example.com")
	require.NoError(t, db.Model(&models.JobSeekerProfile{}).
		Where("user_id = ?", userID).
		Update("will_upload_later", true).Error)

	require.NoError(t, svc.SetResume(db, userID, "/files/resumes/jane.pdf", "jane.pdf"))

	var profile models.JobSeekerProfile
	require.NoError(t, db.Where("user_id = ?", userID).First(&profile).Error)
	assert.True(t, profile.HasResume)
	assert.False(t, profile.WillUploadLater)
	assert.Equal(t, "jane.pdf", profile.ResumeFilename)
}
