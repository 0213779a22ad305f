package referral

import "github.com/shopspring/decimal"

// CreateInput attributes a new signup to an affiliate, either by id or by
// referral code.
type CreateInput struct {
	AffiliateID    uint   `json:"affiliate_id"`
	ReferralCode   string `json:"referral_code"`
	ReferredUserID uint   `json:"referred_user_id"`
	ReferralSource string `json:"referral_source"`
	IPAddress      string `json:"ip_address"`
	UserAgent      string `json:"user_agent"`
	UTMSource      string `json:"utm_source"`
	UTMMedium      string `json:"utm_medium"`
	UTMCampaign    string `json:"utm_campaign"`
	UTMContent     string `json:"utm_content"`
	UTMTerm        string `json:"utm_term"`
}

// ConvertInput drives the manual conversion path. Amount is the conversion
// value; PaymentID is optional and generated when absent.
type ConvertInput struct {
	ReferralID       uint    `json:"referral_id"`
	Amount           float64 `json:"amount"`
	PaymentID        string  `json:"payment_id"`
	SubscriptionType string  `json:"subscription_type"`
}

// Stats aggregates referral counts and commission totals, either program-wide
// or for one affiliate.
type Stats struct {
	TotalReferrals     int64           `json:"total_referrals"`
	ConvertedReferrals int64           `json:"converted_referrals"`
	ConversionRate     float64         `json:"conversion_rate"`
	TotalCommission    decimal.Decimal `json:"total_commission"`
	PendingCommission  decimal.Decimal `json:"pending_commission"`
	ApprovedCommission decimal.Decimal `json:"approved_commission"`
	PaidCommission     decimal.Decimal `json:"paid_commission"`
}
