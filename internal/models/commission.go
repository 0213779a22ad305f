package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Adjustment types
const (
	AdjustmentTypeRefund = "refund"
)

// Commission is the amount owed to an affiliate for one payment on a converted
// referral. The (referral_id, payment_id) pair is unique so a retried payment
// webhook cannot create a second record.
type Commission struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	ReferralID       uint            `gorm:"not null;uniqueIndex:idx_commission_referral_payment" json:"referral_id"`
	AffiliateID      uint            `gorm:"not null;index" json:"affiliate_id"`
	PaymentID        string          `gorm:"not null;uniqueIndex:idx_commission_referral_payment;index" json:"payment_id"`
	PaymentAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"payment_amount"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"commission_amount"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(5,4);not null" json:"commission_rate"`
	SubscriptionType string          `gorm:"default:'standard'" json:"subscription_type"`
	Status           string          `gorm:"default:'pending';index" json:"status"`
	ApprovedBy       *uint           `json:"approved_by,omitempty"`
	ApprovalNotes    string          `json:"approval_notes,omitempty"`
	RejectionReason  string          `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
}

// CommissionAdjustment records a signed delta against a commission, e.g. a
// refund-driven reduction. History is appended, never mutated in place.
type CommissionAdjustment struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	CommissionID   uint            `gorm:"not null;index" json:"commission_id"`
	AdjustmentType string          `gorm:"not null" json:"adjustment_type"`
	Amount         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Reason         string          `json:"reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
