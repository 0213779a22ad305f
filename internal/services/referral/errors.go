package referral

import "errors"

var (
	ErrMissingUser      = errors.New("referred user id is required")
	ErrMissingAffiliate = errors.New("affiliate id or referral code is required")
	ErrAffiliateInactive = errors.New("affiliate cannot accept referrals")
)
