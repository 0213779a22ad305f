package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Affiliate statuses
const (
	AffiliateStatusPending    = "pending"
	AffiliateStatusActive     = "active"
	AffiliateStatusSuspended  = "suspended"
	AffiliateStatusTerminated = "terminated"
)

// Payout methods
const (
	PayoutMethodBankTransfer = "bank_transfer"
	PayoutMethodPayPal       = "paypal"
)

// Affiliate is a partner earning commission for referred conversions.
type Affiliate struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	UserID         *uint           `json:"user_id,omitempty"`
	Email          string          `gorm:"uniqueIndex;not null" json:"email"`
	FirstName      string          `gorm:"not null" json:"first_name"`
	LastName       string          `gorm:"not null" json:"last_name"`
	CompanyName    string          `json:"company_name,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Website        string          `json:"website,omitempty"`
	ReferralCode   string          `gorm:"uniqueIndex;not null" json:"referral_code"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,4);default:0.20" json:"commission_rate"`
	Status         string          `gorm:"default:'pending';index" json:"status"`
	PayoutMethod   string          `gorm:"default:'bank_transfer'" json:"payout_method"`
	PayoutDetails  JSON            `gorm:"type:jsonb" json:"payout_details,omitempty"`
	TaxID          string          `json:"tax_id,omitempty"`
	Country        string          `json:"country,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
