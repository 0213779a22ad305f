package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral commission statuses. A referral is never deleted; cancellation is a
// status change, not a row removal.
const (
	CommissionStatusPending   = "pending"
	CommissionStatusApproved  = "approved"
	CommissionStatusRejected  = "rejected"
	CommissionStatusPaid      = "paid"
	CommissionStatusCancelled = "cancelled"
)

// Referral links a referred user to the affiliate who brought them. At most one
// referral exists per referred user.
type Referral struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	AffiliateID    uint   `gorm:"not null;index" json:"affiliate_id"`
	ReferredUserID uint   `gorm:"uniqueIndex;not null" json:"referred_user_id"`
	ReferralSource string `json:"referral_source,omitempty"`
	IPAddress      string `json:"ip_address,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"`
	UTMSource      string `json:"utm_source,omitempty"`
	UTMMedium      string `json:"utm_medium,omitempty"`
	UTMCampaign    string `json:"utm_campaign,omitempty"`
	UTMContent     string `json:"utm_content,omitempty"`
	UTMTerm        string `json:"utm_term,omitempty"`

	ConversionValue  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"conversion_value"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"commission_amount"`
	CommissionStatus string          `gorm:"default:'pending';index" json:"commission_status"`

	ReferredAt  time.Time  `json:"referred_at"`
	ConvertedAt *time.Time `json:"converted_at,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// Converted reports whether the referral has already produced a conversion.
func (r *Referral) Converted() bool {
	return r.ConvertedAt != nil
}
