package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"climatework_backend/internal/config"
	"climatework_backend/internal/models"
	"climatework_backend/internal/services/dto"
	"climatework_backend/internal/storage"
	"climatework_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadService validates and stores resumes and partner logos, then records
// the resulting URL on the owning profile row.
type UploadService interface {
	UploadResume(ctx context.Context, db *gorm.DB, userID, filename, contentType string, size int64, file io.Reader) (*dto.UploadResponse, error)
	UploadPartnerLogo(ctx context.Context, db *gorm.DB, userID, filename, contentType string, size int64, file io.Reader) (*dto.UploadResponse, error)
}

type UploadServiceImpl struct {
	store          storage.Storage
	profileService ProfileService
	audit          AuditService
}

func NewUploadService(store storage.Storage, profileService ProfileService, audit AuditService) UploadService {
	return &UploadServiceImpl{
		store:          store,
		profileService: profileService,
		audit:          audit,
	}
}

func (s *UploadServiceImpl) UploadResume(ctx context.Context, db *gorm.DB, userID, filename, contentType string, size int64, file io.Reader) (*dto.UploadResponse, error) {
	cfg := config.GetConfig()

	if size > cfg.Upload.MaxResumeSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !allowedType(contentType, cfg.Upload.ResumeTypes) {
		return nil, apperrors.ErrInvalidFileType
	}

	path := objectPath("resumes", userID, filename)
	if err := s.store.Save(ctx, path, file, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.profileService.SetResume(db, userID, url, filename); err != nil {
		// The object is orphaned if the row update fails; remove it so a
		// retry does not accumulate copies.
		_ = s.store.Delete(ctx, path)
		return nil, err
	}

	s.audit.Record(db, userID, models.EventResumeUploaded, models.OutcomeSuccess, filename, "")

	return &dto.UploadResponse{URL: url, Filename: filename, Size: size}, nil
}

func (s *UploadServiceImpl) UploadPartnerLogo(ctx context.Context, db *gorm.DB, userID, filename, contentType string, size int64, file io.Reader) (*dto.UploadResponse, error) {
	cfg := config.GetConfig()

	if size > cfg.Upload.MaxLogoSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !allowedType(contentType, cfg.Upload.LogoTypes) {
		return nil, apperrors.ErrInvalidFileType
	}

	path := objectPath("logos", userID, filename)
	if err := s.store.Save(ctx, path, file, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.profileService.SetPartnerLogo(db, userID, url); err != nil {
		_ = s.store.Delete(ctx, path)
		return nil, err
	}

	return &dto.UploadResponse{URL: url, Filename: filename, Size: size}, nil
}

func allowedType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.EqualFold(contentType, t) {
			return true
		}
	}
	return false
}

// objectPath namespaces objects per user and prefixes a uuid so re-uploads of
// the same filename never collide.
func objectPath(kind, userID, filename string) string {
	return fmt.Sprintf("%s/%s/%s%s", kind, userID, uuid.NewString(), filepath.Ext(filename))
}
