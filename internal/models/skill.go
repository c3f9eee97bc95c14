package models

// Skill rows live in their own collection so they can be added and removed
// independently of the job-seeker profile row. (user_id, name) is unique.
type Skill struct {
	BaseModel
	UserID      string `gorm:"not null;index;uniqueIndex:idx_user_skill"`
	Name        string `gorm:"not null;uniqueIndex:idx_user_skill"`
	Category    string
	Proficiency string
	Verified    bool `gorm:"default:false"`
}
