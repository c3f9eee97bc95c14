package dto

import "climatework_backend/internal/models"

// StepResult is returned from every step submit: the step just persisted and
// where the client goes next.
type StepResult struct {
	Step      int      `json:"step"`
	Completed bool     `json:"completed"`
	NextRoute string   `json:"next_route"`
	Warnings  []string `json:"warnings,omitempty"`
}

// StepState is the pre-fill payload for a step page. Fields holds only the
// fields the step owns.
type StepState struct {
	Step   int                    `json:"step"`
	Fields map[string]interface{} `json:"fields"`
}

// Job seeker steps.

type JobSeekerStep1Request struct {
	FirstName string           `json:"first_name" validate:"required,min=1"`
	LastName  string           `json:"last_name" validate:"required,min=1"`
	Phone     string           `json:"phone" validate:"omitempty,max=32"`
	Location  *models.Location `json:"location" validate:"required"`
}

type EducationEntry struct {
	School    string `json:"school" validate:"required"`
	Degree    string `json:"degree"`
	Field     string `json:"field"`
	StartYear int    `json:"start_year" validate:"omitempty,min=1900"`
	EndYear   int    `json:"end_year" validate:"omitempty,min=1900"`
}

type WorkExperienceEntry struct {
	Company     string `json:"company" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	StartYear   int    `json:"start_year" validate:"omitempty,min=1900"`
	EndYear     int    `json:"end_year" validate:"omitempty,min=1900"`
	Current     bool   `json:"current"`
}

type JobSeekerStep2Request struct {
	Education         []EducationEntry      `json:"education" validate:"dive"`
	WorkExperience    []WorkExperienceEntry `json:"work_experience" validate:"dive"`
	HighestEducation  string                `json:"highest_education"`
	YearsOfExperience int                   `json:"years_of_experience" validate:"omitempty,min=0,max=80"`
}

type SkillEntry struct {
	Name        string `json:"name" validate:"required,min=1"`
	Category    string `json:"category"`
	Proficiency string `json:"proficiency" validate:"omitempty,is-proficiency"`
}

type SalaryExpectationsEntry struct {
	Min  int    `json:"min" validate:"omitempty,min=0"`
	Max  int    `json:"max" validate:"omitempty,min=0"`
	Type string `json:"type" validate:"omitempty,is-salary-type"`
}

type JobSeekerStep3Request struct {
	Skills                   []SkillEntry             `json:"skills" validate:"dive"`
	Interests                []string                 `json:"interests"`
	PreferredJobTypes        []string                 `json:"preferred_job_types"`
	PreferredWorkEnvironment []string                 `json:"preferred_work_environment"`
	WillingToRelocate        bool                     `json:"willing_to_relocate"`
	PreferredLocations       []string                 `json:"preferred_locations"`
	SalaryExpectations       *SalaryExpectationsEntry `json:"salary_expectations"`
}

type JobSeekerStep4Request struct {
	HasResume       bool   `json:"has_resume"`
	WillUploadLater bool   `json:"will_upload_later"`
	ResumeURL       string `json:"resume_url" validate:"omitempty,url"`
	ResumeFilename  string `json:"resume_filename"`
}

type JobSeekerStep5Request struct {
	TermsAccepted bool `json:"terms_accepted"`
}

// Partner steps.

type PartnerStep1Request struct {
	OrganizationName string           `json:"organization_name" validate:"required,min=1"`
	OrganizationType string           `json:"organization_type"`
	Website          string           `json:"website" validate:"omitempty,url"`
	Description      string           `json:"description" validate:"omitempty,max=5000"`
	ClimateFocus     []string         `json:"climate_focus"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	Phone            string           `json:"phone" validate:"omitempty,max=32"`
	Location         *models.Location `json:"location"`
}

type PartnerStep2Request struct {
	ServicesOffered []string `json:"services_offered"`
	TargetAudience  []string `json:"target_audience"`
	HiringTimeline  string   `json:"hiring_timeline"`
}

type PartnerStep3Request struct {
	LogoURL string `json:"logo_url" validate:"omitempty,url"`
}

type PartnerStep4Request struct {
	TermsAccepted bool `json:"terms_accepted"`
}
