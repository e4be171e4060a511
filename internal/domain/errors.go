package domain

import "errors"

// Error taxonomy shared by the repository, service and HTTP layers.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrTaskNotFound    = errors.New("task not found")
	ErrValidation      = errors.New("validation failed")
	ErrInternal        = errors.New("internal error")
)

// Auth provider errors. Their messages are the provider's wire messages and
// are matched by clients, so they must stay stable.
var (
	ErrInvalidCredentials  = errors.New("Invalid login credentials")
	ErrEmailNotConfirmed   = errors.New("Email not confirmed")
	ErrUserExists          = errors.New("User already registered")
	ErrInvalidConfirmation = errors.New("Invalid or expired confirmation link")
	ErrUserNotFound        = errors.New("user not found")
)
