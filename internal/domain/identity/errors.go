package identity

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleMismatch       = errors.New("account does not have access to this area")
	ErrAccountInactive    = errors.New("account is not active")
	ErrVendorNotActive    = errors.New("vendor is not active")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidDate        = errors.New("date must be YYYY-MM-DD")
	ErrNotFound           = errors.New("not found")

	ErrInvalidCodeFormat = errors.New("verification code must be 6 digits")
	ErrInvalidCode       = errors.New("invalid or expired verification code")
	ErrTooManyAttempts   = errors.New("too many attempts, request a new code")
	ErrRateLimitExceeded = errors.New("code was sent recently, try again later")
)
