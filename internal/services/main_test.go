package services

import (
	"fmt"
	"testing"
	"time"

	"climatework_backend/internal/config"
	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/services/dto"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret-key"
	config.AppConfig.JWT.TTL = 60
}

// newTestDB opens a per-test in-memory database and migrates every model.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AuthCode{},
		&models.PendingRegistration{},
		&models.UserProfile{},
		&models.JobSeekerProfile{},
		&models.PartnerProfile{},
		&models.Skill{},
		&models.Recommendation{},
		&models.SecurityEvent{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createPendingRegistration(t *testing.T, db *gorm.DB, email string, userType models.UserType, firstName, lastName, orgName string) {
	t.Helper()

	require.NoError(t, db.Create(&models.PendingRegistration{
		Email:            email,
		UserType:         userType,
		FirstName:        firstName,
		LastName:         lastName,
		OrganizationName: orgName,
		ExpiresAt:        time.Now().Add(24 * time.Hour),
	}).Error)
}

// stubNotifier records welcome sends and can be told to fail.
type stubNotifier struct {
	sent []string
	err  error
}

func (n *stubNotifier) SendWelcome(email, name, userRole string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, email)
	return nil
}

// stubRecommendationService counts trigger calls and can be told to fail.
type stubRecommendationService struct {
	calls int
	err   error
}

func (s *stubRecommendationService) GenerateAllRecommendations(db *gorm.DB, userID string) error {
	s.calls++
	return s.err
}

func (s *stubRecommendationService) List(db *gorm.DB, userID string, limit int) ([]dto.RecommendationResponse, error) {
	return nil, nil
}

func newOnboardingForTest(rec RecommendationService) OnboardingService {
	return NewOnboardingService(
		repositories.NewUserRepository(),
		repositories.NewProfileRepository(),
		repositories.NewSkillRepository(),
		repositories.NewPendingRegistrationRepository(),
		rec,
		NewAuditService(repositories.NewSecurityEventRepository()),
	)
}

func newProfileForTest(rec RecommendationService) ProfileService {
	return NewProfileService(
		repositories.NewProfileRepository(),
		repositories.NewSkillRepository(),
		rec,
	)
}
