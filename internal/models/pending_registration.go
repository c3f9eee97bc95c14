package models

import "time"

// PendingRegistration bridges the registration form and the first onboarding
// step across the email-confirmation gap. One row per email, written at
// register, read by the auth callback or step 1, deleted once the backing
// profile rows exist. Expired rows are ignored by readers and swept by the
// housekeeping worker.
type PendingRegistration struct {
	BaseModel
	Email             string   `gorm:"uniqueIndex;not null"`
	UserType          UserType `gorm:"type:varchar(20);not null"`
	FirstName         string
	LastName          string
	OrganizationName  string
	ConfirmationEmail string
	ExpiresAt         time.Time `gorm:"not null"`
}

func (p *PendingRegistration) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
