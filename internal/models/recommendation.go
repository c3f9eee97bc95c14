package models

// Recommendation is a scored job-seeker → partner match produced by the
// recommendation trigger. Rows are replaced wholesale on each recomputation.
type Recommendation struct {
	BaseModel
	UserID    string  `gorm:"not null;index"`
	PartnerID string  `gorm:"not null"`
	Score     float64 `gorm:"not null"`
	Reason    string
}
