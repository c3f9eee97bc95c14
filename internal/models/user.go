package models

import "time"

type User struct {
	BaseModel
	Email             string     `gorm:"uniqueIndex;not null"`
	PasswordHash      string     `gorm:"not null"`
	Status            UserStatus `gorm:"type:varchar(20);default:'pending'"`
	IsVerified        bool       `gorm:"default:false"`
	VerificationToken string

	// Relations
	Profile          *UserProfile      `gorm:"foreignKey:UserID"`
	JobSeekerProfile *JobSeekerProfile `gorm:"foreignKey:UserID"`
	PartnerProfile   *PartnerProfile   `gorm:"foreignKey:UserID"`
}

// AuthCode is a one-time exchange code minted on email confirmation or OAuth
// return. The auth callback trades it for a session; a consumed or expired
// code cannot be exchanged again.
type AuthCode struct {
	BaseModel
	UserID     string    `gorm:"not null;index"`
	Code       string    `gorm:"not null;uniqueIndex"`
	ExpiresAt  time.Time `gorm:"not null"`
	ConsumedAt *time.Time
}

func (c *AuthCode) Usable(now time.Time) bool {
	return c.ConsumedAt == nil && now.Before(c.ExpiresAt)
}
