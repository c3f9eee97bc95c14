package models

import "gorm.io/datatypes"

// Location is stored as a JSON column on UserProfile.
type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
	Zip   string `json:"zip"`
}

// UserProfile is the generic per-identity profile row. Exactly one exists per
// user; UserType is set at creation and never silently changed.
type UserProfile struct {
	BaseModel
	UserID           string   `gorm:"uniqueIndex;not null"`
	UserType         UserType `gorm:"type:varchar(20);not null"`
	FirstName        string
	LastName         string
	Phone            string
	Location         datatypes.JSON
	ProfileCompleted bool `gorm:"default:false"`

	// Partner-only duplicated identity fields, kept on the generic row so
	// dashboards can render without the role-specific join.
	OrganizationName string
	OrganizationType string
}

func (p *UserProfile) LocationValue() Location {
	var loc Location
	_ = DecodeJSONColumn(p.Location, &loc)
	return loc
}
