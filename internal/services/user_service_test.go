package services

import (
	"fmt"
	"testing"

	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUserWithRole(t *testing.T, db *gorm.DB, email string, userType models.UserType) *models.User {
	t.Helper()

	user := createTestUser(t, db, email)
	require.NoError(t, db.Create(&models.UserProfile{
		UserID:   user.ID,
		UserType: userType,
	}).Error)
	return user
}

func TestListUsers_RoleFilterCountsFilteredSet(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(), repositories.NewProfileRepository())

	for i := 0; i < 3; i++ {
		seedUserWithRole(t, db, fmt.Sprintf("seeker%d@example.com", i), models.UserTypeJobSeeker)
	}
	seedUserWithRole(t, db, "partner@example.com", models.UserTypePartner)

	resp, err := svc.ListUsers(db, &dto.UserFilterRequest{UserType: string(models.UserTypePartner)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.Total)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "partner@example.com", resp.Users[0].Email)
	assert.Equal(t, string(models.UserTypePartner), resp.Users[0].UserType)
}

func TestListUsers_RoleFilterPaginatesWithinRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(), repositories.NewProfileRepository())

	for i := 0; i < 5; i++ {
		seedUserWithRole(t, db, fmt.Sprintf("seeker%d@example.com", i), models.UserTypeJobSeeker)
	}
	for i := 0; i < 2; i++ {
		seedUserWithRole(t, db, fmt.Sprintf("partner%d@example.com", i), models.UserTypePartner)
	}

	resp, err := svc.ListUsers(db, &dto.UserFilterRequest{
		UserType: string(models.UserTypeJobSeeker),
		Page:     1,
		PageSize: 3,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, resp.Total)
	assert.Len(t, resp.Users, 3)
	for _, item := range resp.Users {
		assert.Equal(t, string(models.UserTypeJobSeeker), item.UserType)
	}
}

func TestListUsers_NoFilterReturnsEveryone(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(), repositories.NewProfileRepository())

	seedUserWithRole(t, db, "seeker@example.com", models.UserTypeJobSeeker)
	seedUserWithRole(t, db, "partner@example.com", models.UserTypePartner)

	resp, err := svc.ListUsers(db, &dto.UserFilterRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Total)
	assert.Len(t, resp.Users, 2)
}
