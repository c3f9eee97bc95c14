package dto

import "climatework_backend/internal/models"

// UpdateUserProfileRequest is a partial update; nil fields are left alone.
type UpdateUserProfileRequest struct {
	FirstName        *string          `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName         *string          `json:"last_name,omitempty" validate:"omitempty,min=1"`
	Phone            *string          `json:"phone,omitempty" validate:"omitempty,max=32"`
	Location         *models.Location `json:"location,omitempty"`
	OrganizationName *string          `json:"organization_name,omitempty"`
	OrganizationType *string          `json:"organization_type,omitempty"`
}

type UpdateJobSeekerProfileRequest struct {
	Education                []EducationEntry         `json:"education,omitempty" validate:"omitempty,dive"`
	WorkExperience           []WorkExperienceEntry    `json:"work_experience,omitempty" validate:"omitempty,dive"`
	HighestEducation         *string                  `json:"highest_education,omitempty"`
	YearsOfExperience        *int                     `json:"years_of_experience,omitempty" validate:"omitempty,min=0,max=80"`
	Interests                []string                 `json:"interests,omitempty"`
	PreferredJobTypes        []string                 `json:"preferred_job_types,omitempty"`
	PreferredWorkEnvironment []string                 `json:"preferred_work_environment,omitempty"`
	WillingToRelocate        *bool                    `json:"willing_to_relocate,omitempty"`
	PreferredLocations       []string                 `json:"preferred_locations,omitempty"`
	SalaryExpectations       *SalaryExpectationsEntry `json:"salary_expectations,omitempty"`
}

// MutationStatus reports whether a profile mutation's secondary effects ran.
type MutationStatus string

const (
	MutationApplied             MutationStatus = "applied"
	MutationAppliedWithWarnings MutationStatus = "applied_with_warnings"
	MutationFailed              MutationStatus = "failed"
)

// MutationOutcome is returned from every profile mutation. The primary write
// either applied or failed; warnings collect failed best-effort side effects
// such as the recommendation trigger.
type MutationOutcome struct {
	Status   MutationStatus `json:"status"`
	Warnings []string       `json:"warnings,omitempty"`
}

func Applied() MutationOutcome {
	return MutationOutcome{Status: MutationApplied}
}

func AppliedWithWarnings(warnings ...string) MutationOutcome {
	if len(warnings) == 0 {
		return Applied()
	}
	return MutationOutcome{Status: MutationAppliedWithWarnings, Warnings: warnings}
}

type UserProfileResponse struct {
	UserID           string           `json:"user_id"`
	UserType         string           `json:"user_type"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	Phone            string           `json:"phone,omitempty"`
	Location         *models.Location `json:"location,omitempty"`
	ProfileCompleted bool             `json:"profile_completed"`
	OrganizationName string           `json:"organization_name,omitempty"`
	OrganizationType string           `json:"organization_type,omitempty"`
}
