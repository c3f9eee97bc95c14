package models

type UserStatus string
type UserType string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserTypeJobSeeker UserType = "job_seeker"
	UserTypePartner   UserType = "partner"
	UserTypeAdmin     UserType = "admin"
)

// ValidUserType reports whether t is one of the three platform roles.
func ValidUserType(t UserType) bool {
	switch t {
	case UserTypeJobSeeker, UserTypePartner, UserTypeAdmin:
		return true
	}
	return false
}
