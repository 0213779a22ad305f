package affiliate

import "errors"

var (
	ErrMissingEmail      = errors.New("email is required")
	ErrMissingName       = errors.New("first and last name are required")
	ErrInvalidStatus     = errors.New("invalid affiliate status")
	ErrInvalidRate       = errors.New("commission rate must be between 0 and 1")
	ErrCodeGeneration    = errors.New("could not generate a unique referral code")
)
