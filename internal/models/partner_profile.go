package models

import (
	"time"

	"gorm.io/datatypes"
)

// PartnerProfile is the role-specific row for partner organizations.
// Verified defaults to false and flips to true on terminal-step submission
// (pending external moderation, which is not modeled here).
type PartnerProfile struct {
	BaseModel
	UserID              string `gorm:"uniqueIndex;not null"`
	OnboardingStep      int    `gorm:"default:0"`
	OnboardingCompleted bool   `gorm:"default:false"`

	OrganizationName string `gorm:"not null"`
	OrganizationType string
	Website          string
	Description      string

	ClimateFocus    datatypes.JSON
	ServicesOffered datatypes.JSON
	TargetAudience  datatypes.JSON
	HiringTimeline  string

	LogoURL  string
	Verified bool `gorm:"default:false"`

	TermsAcceptedAt *time.Time
}
