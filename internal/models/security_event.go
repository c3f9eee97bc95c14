package models

// SecurityEvent is an append-only audit record. Writes are best-effort; a
// failed append must never affect the operation being audited.
type SecurityEvent struct {
	BaseModel
	UserID    string `gorm:"index"`
	EventType string `gorm:"not null;index"`
	Outcome   string `gorm:"type:varchar(20)"`
	Detail    string
	IPAddress string
}

const (
	EventAuthCallback   = "auth_callback"
	EventProfileCreated = "profile_created"
	EventOnboardingStep = "onboarding_step"
	EventResumeUploaded = "resume_uploaded"
	EventLogin          = "login"
	EventRegistration   = "registration"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
