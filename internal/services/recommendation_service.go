package services

import (
	"fmt"
	"strings"

	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/services/dto"
	"climatework_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// RecommendationService recomputes job-seeker → partner matches. It is always
// invoked best-effort: callers log failures and continue, the trigger never
// blocks a profile write.
type RecommendationService interface {
	GenerateAllRecommendations(db *gorm.DB, userID string) error
	List(db *gorm.DB, userID string, limit int) ([]dto.RecommendationResponse, error)
}

type RecommendationServiceImpl struct {
	profileRepo repositories.ProfileRepository
	skillRepo   repositories.SkillRepository
	recRepo     repositories.RecommendationRepository
}

func NewRecommendationService(
	profileRepo repositories.ProfileRepository,
	skillRepo repositories.SkillRepository,
	recRepo repositories.RecommendationRepository,
) RecommendationService {
	return &RecommendationServiceImpl{
		profileRepo: profileRepo,
		skillRepo:   skillRepo,
		recRepo:     recRepo,
	}
}

// GenerateAllRecommendations scores every partner against the seeker's
// preferences and skills and replaces the stored recommendation set.
func (s *RecommendationServiceImpl) GenerateAllRecommendations(db *gorm.DB, userID string) error {
	seeker, err := s.profileRepo.FindJobSeekerProfileByUserID(db, userID)
	if err != nil {
		return err
	}

	skills, err := s.skillRepo.ListByUser(db, userID)
	if err != nil {
		return err
	}

	partners, err := s.profileRepo.FindAllPartnerProfiles(db)
	if err != nil {
		return err
	}

	var recs []models.Recommendation
	for i := range partners {
		score, reason := scorePartner(seeker, skills, &partners[i])
		if score <= 0 {
			continue
		}
		recs = append(recs, models.Recommendation{
			UserID:    userID,
			PartnerID: partners[i].UserID,
			Score:     score,
			Reason:    reason,
		})
	}

	return s.recRepo.ReplaceForUser(db, userID, recs)
}

func (s *RecommendationServiceImpl) List(db *gorm.DB, userID string, limit int) ([]dto.RecommendationResponse, error) {
	recs, err := s.recRepo.ListByUser(db, userID, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.RecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, dto.RecommendationResponse{
			PartnerID: rec.PartnerID,
			Score:     rec.Score,
			Reason:    rec.Reason,
		})
	}
	return out, nil
}

// scorePartner is a weighted term-overlap between seeker preferences/skills
// and the partner's focus/services. Unverified partners are skipped.
func scorePartner(seeker *models.JobSeekerProfile, skills []models.Skill, partner *models.PartnerProfile) (float64, string) {
	if !partner.Verified {
		return 0, ""
	}

	partnerTerms := termSet(
		models.StringsColumn(partner.ClimateFocus),
		models.StringsColumn(partner.ServicesOffered),
		models.StringsColumn(partner.TargetAudience),
	)
	if len(partnerTerms) == 0 {
		return 0, ""
	}

	var score float64
	var matched []string

	for _, term := range models.StringsColumn(seeker.Interests) {
		if partnerTerms[normalizeTerm(term)] {
			score += 1.0
			matched = append(matched, term)
		}
	}
	for _, term := range models.StringsColumn(seeker.PreferredJobTypes) {
		if partnerTerms[normalizeTerm(term)] {
			score += 1.5
			matched = append(matched, term)
		}
	}
	for _, skill := range skills {
		if partnerTerms[normalizeTerm(skill.Name)] {
			weight := 2.0
			if skill.Verified {
				weight = 2.5
			}
			score += weight
			matched = append(matched, skill.Name)
		}
	}

	if score == 0 {
		return 0, ""
	}

	reason := fmt.Sprintf("matched on %s", strings.Join(dedupe(matched), ", "))
	return score, reason
}

func termSet(groups ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, group := range groups {
		for _, term := range group {
			if t := normalizeTerm(term); t != "" {
				set[t] = true
			}
		}
	}
	return set
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	var out []string
	for _, t := range terms {
		key := normalizeTerm(t)
		if !seen[key] {
			seen[key] = true
			out = append(out, t)
		}
	}
	return out
}
