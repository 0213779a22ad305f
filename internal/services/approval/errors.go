package approval

import "errors"

var (
	ErrNoCommissionIDs = errors.New("no commission ids provided")
	ErrMissingReason   = errors.New("rejection reason is required")
)
