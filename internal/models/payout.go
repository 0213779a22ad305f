package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout statuses
const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
)

// Payout aggregates an affiliate's approved commissions for one calendar
// period. Exactly one payout may exist per (affiliate, period).
type Payout struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	AffiliateID   uint            `gorm:"not null;uniqueIndex:idx_payout_affiliate_period" json:"affiliate_id"`
	PeriodStart   time.Time       `gorm:"not null;uniqueIndex:idx_payout_affiliate_period" json:"period_start"`
	PeriodEnd     time.Time       `gorm:"not null;uniqueIndex:idx_payout_affiliate_period" json:"period_end"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	ReferralCount int             `gorm:"not null" json:"referral_count"`
	Status        string          `gorm:"default:'pending';index" json:"status"`
	PayoutMethod  string          `gorm:"default:'bank_transfer'" json:"payout_method"`
	Reference     string          `json:"reference,omitempty"`
	PayoutDate    *time.Time      `json:"payout_date,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	LineItems []PayoutLineItem `gorm:"constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
}

// PayoutLineItem ties one referral's commission into a payout, 1:1.
type PayoutLineItem struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	PayoutID         uint            `gorm:"not null;uniqueIndex:idx_line_item_payout_referral" json:"payout_id"`
	ReferralID       uint            `gorm:"not null;uniqueIndex:idx_line_item_payout_referral" json:"referral_id"`
	CommissionID     uint            `gorm:"not null" json:"commission_id"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"commission_amount"`
	CreatedAt        time.Time       `json:"created_at"`
}
