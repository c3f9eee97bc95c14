package models

import (
	"time"

	"gorm.io/datatypes"
)

type SalaryExpectations struct {
	Min  int    `json:"min"`
	Max  int    `json:"max"`
	Type string `json:"type"` // annual or hourly
}

// JobSeekerProfile holds onboarding progress and matching preferences for a
// job-seeker identity. Created at onboarding step 1, finalized at step 5.
// OnboardingStep is monotonically non-decreasing under normal flow;
// OnboardingCompleted=true implies UserProfile.ProfileCompleted=true (both are
// flipped in the same transaction at the terminal step).
type JobSeekerProfile struct {
	BaseModel
	UserID              string `gorm:"uniqueIndex;not null"`
	OnboardingStep      int    `gorm:"default:0"`
	OnboardingCompleted bool   `gorm:"default:false"`

	Education         datatypes.JSON
	WorkExperience    datatypes.JSON
	HighestEducation  string
	YearsOfExperience int

	Interests                datatypes.JSON
	PreferredJobTypes        datatypes.JSON
	PreferredWorkEnvironment datatypes.JSON
	WillingToRelocate        bool `gorm:"default:false"`
	PreferredLocations       datatypes.JSON
	SalaryExpectations       datatypes.JSON

	ResumeURL       string
	ResumeFilename  string
	ResumeParsed    bool `gorm:"default:false"`
	HasResume       bool `gorm:"default:false"`
	WillUploadLater bool `gorm:"default:false"`

	TermsAcceptedAt *time.Time

	Skills []Skill `gorm:"foreignKey:UserID;references:UserID"`
}

func (p *JobSeekerProfile) SalaryValue() SalaryExpectations {
	var s SalaryExpectations
	_ = DecodeJSONColumn(p.SalaryExpectations, &s)
	return s
}
