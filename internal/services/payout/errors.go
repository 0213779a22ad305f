package payout

import "errors"

var (
	ErrInvalidPeriod         = errors.New("invalid payout period")
	ErrInvalidStatus         = errors.New("invalid payout status")
	ErrNoApprovedCommissions = errors.New("no approved commissions found for the specified period")
)
