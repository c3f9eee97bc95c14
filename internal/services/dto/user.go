package dto

import "time"

// UserFilterRequest is the admin listing filter.
type UserFilterRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending active suspended"`
	UserType string `form:"user_type" validate:"omitempty,is-user-type"`
	Search   string `form:"search"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type UserListItem struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	UserType  string    `json:"user_type,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UserListResponse struct {
	Users    []UserListItem `json:"users"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type SecurityEventResponse struct {
	EventType string    `json:"event_type"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RecommendationResponse struct {
	PartnerID string  `json:"partner_id"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason,omitempty"`
}

type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}
