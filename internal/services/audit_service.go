package services

import (
	"climatework_backend/internal/logger"
	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/services/dto"
	"climatework_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AuditService appends security events. Record is best-effort by contract:
// it logs and swallows failures so audited operations never fail on it.
type AuditService interface {
	Record(db *gorm.DB, userID, eventType, outcome, detail, ip string)
	ListRecent(db *gorm.DB, userID string, limit int) ([]dto.SecurityEventResponse, error)
}

type AuditServiceImpl struct {
	eventRepo repositories.SecurityEventRepository
}

func NewAuditService(eventRepo repositories.SecurityEventRepository) AuditService {
	return &AuditServiceImpl{eventRepo: eventRepo}
}

func (s *AuditServiceImpl) Record(db *gorm.DB, userID, eventType, outcome, detail, ip string) {
	event := &models.SecurityEvent{
		UserID:    userID,
		EventType: eventType,
		Outcome:   outcome,
		Detail:    detail,
		IPAddress: ip,
	}
	if err := s.eventRepo.Create(db, event); err != nil {
		logger.WithError(err).Warn("failed to record security event",
			"event_type", eventType, "user_id", userID)
	}
}

func (s *AuditServiceImpl) ListRecent(db *gorm.DB, userID string, limit int) ([]dto.SecurityEventResponse, error) {
	events, err := s.eventRepo.ListRecent(db, userID, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.SecurityEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.SecurityEventResponse{
			EventType: e.EventType,
			Outcome:   e.Outcome,
			Detail:    e.Detail,
			IPAddress: e.IPAddress,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}
