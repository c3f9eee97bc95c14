package apperrors

type ErrorCode string

const (
	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Generic business errors
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"

	// Authentication and authorization
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Users and profiles
	CodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeUserNotVerified    ErrorCode = "USER_NOT_VERIFIED"
	CodeUserSuspended      ErrorCode = "USER_SUSPENDED"
	CodeWeakPassword       ErrorCode = "WEAK_PASSWORD"
	CodeInvalidUserType    ErrorCode = "INVALID_USER_TYPE"
	CodeProfileNotFound    ErrorCode = "PROFILE_NOT_FOUND"
	CodeUserTypeImmutable  ErrorCode = "USER_TYPE_IMMUTABLE"

	// Onboarding
	CodeTermsNotAccepted ErrorCode = "TERMS_NOT_ACCEPTED"
	CodeInvalidStep      ErrorCode = "INVALID_ONBOARDING_STEP"

	// Uploads
	CodeFileTooLarge    ErrorCode = "FILE_TOO_LARGE"
	CodeInvalidFileType ErrorCode = "INVALID_FILE_TYPE"
)
