package services

import (
	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/services/dto"
	"climatework_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UserService serves the admin-facing user views.
type UserService interface {
	ListUsers(db *gorm.DB, req *dto.UserFilterRequest) (*dto.UserListResponse, error)
	GetUser(db *gorm.DB, userID string) (*dto.UserInfo, error)
}

type UserServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
}

func NewUserService(userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo, profileRepo: profileRepo}
}

func (s *UserServiceImpl) ListUsers(db *gorm.DB, req *dto.UserFilterRequest) (*dto.UserListResponse, error) {
	filter := repositories.UserFilter{
		Status:   models.UserStatus(req.Status),
		UserType: models.UserType(req.UserType),
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	users, total, err := s.userRepo.FindWithFilter(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.UserListItem, 0, len(users))
	for _, user := range users {
		item := dto.UserListItem{
			ID:        user.ID,
			Email:     user.Email,
			Status:    string(user.Status),
			CreatedAt: user.CreatedAt,
		}
		if user.Profile != nil {
			item.UserType = string(user.Profile.UserType)
			item.FirstName = user.Profile.FirstName
			item.LastName = user.Profile.LastName
		}
		items = append(items, item)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return &dto.UserListResponse{
		Users:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *UserServiceImpl) GetUser(db *gorm.DB, userID string) (*dto.UserInfo, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	info := &dto.UserInfo{
		ID:     user.ID,
		Email:  user.Email,
		Status: user.Status,
	}
	if profile, err := s.profileRepo.FindUserProfileByUserID(db, userID); err == nil {
		info.UserType = profile.UserType
		info.FirstName = profile.FirstName
		info.LastName = profile.LastName
	}
	return info, nil
}
