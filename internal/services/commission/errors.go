package commission

import "errors"

// Service errors
var (
	ErrZeroPaymentAmount   = errors.New("original payment amount must be positive")
	ErrInvalidRefundAmount = errors.New("refund amount must be positive")
	ErrAlreadyConverted    = errors.New("referral already converted")
	ErrMissingPaymentID    = errors.New("payment id is required")
)
