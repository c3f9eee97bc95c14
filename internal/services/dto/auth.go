package dto

import "climatework_backend/internal/models"

type RegisterRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	UserType         string `json:"user_type" validate:"required,is-user-type"`
	FirstName        string `json:"first_name" validate:"required,min=1"`
	LastName         string `json:"last_name" validate:"required,min=1"`
	OrganizationName string `json:"organization_name" validate:"required_if=UserType partner"`
}

type RegisterResponse struct {
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	// Redirect is where the client goes while waiting for the confirmation
	// email.
	Redirect string `json:"redirect"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
	Redirect string `json:"redirect"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type VerifyEmailResponse struct {
	// Redirect carries the one-time exchange code the callback consumes.
	Redirect string `json:"redirect"`
}

// CallbackRequest mirrors the query parameters an auth provider appends to
// the callback URL.
type CallbackRequest struct {
	Code             string `json:"code" form:"code"`
	Error            string `json:"error" form:"error"`
	ErrorDescription string `json:"error_description" form:"error_description"`
	RetryCount       int    `json:"retry_count" form:"retry_count" validate:"omitempty,min=0"`
}

// CallbackResult is the terminal outcome of a callback exchange: either a
// redirect or a retryable error with an action hint.
type CallbackResult struct {
	Redirect string   `json:"redirect,omitempty"`
	Token    string   `json:"token,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	Error      string `json:"error,omitempty"`
	Action     string `json:"action,omitempty"`      // "retry" or "reload"
	RetryDelay int    `json:"retry_delay,omitempty"` // milliseconds
	RetryCount int    `json:"retry_count,omitempty"` // retries consumed so far
}

func (r *CallbackResult) Failed() bool { return r.Error != "" }

type UserInfo struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	UserType  models.UserType   `json:"user_type"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Status    models.UserStatus `json:"status"`
}
