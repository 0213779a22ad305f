package affiliate

import (
	"time"

	"refshare/internal/models"

	"github.com/shopspring/decimal"
)

// CreateInput carries the fields accepted when enrolling a new affiliate.
type CreateInput struct {
	Email          string          `json:"email"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	CompanyName    string          `json:"company_name"`
	Phone          string          `json:"phone"`
	Website        string          `json:"website"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	PayoutMethod   string          `json:"payout_method"`
	PayoutDetails  models.JSON     `json:"payout_details"`
	TaxID          string          `json:"tax_id"`
	Country        string          `json:"country"`
}

// UpdateInput carries the mutable affiliate fields. Nil pointers leave the
// stored value untouched.
type UpdateInput struct {
	FirstName     *string          `json:"first_name"`
	LastName      *string          `json:"last_name"`
	CompanyName   *string          `json:"company_name"`
	Phone         *string          `json:"phone"`
	Website       *string          `json:"website"`
	PayoutMethod  *string          `json:"payout_method"`
	PayoutDetails *models.JSON     `json:"payout_details"`
	TaxID         *string          `json:"tax_id"`
	Country       *string          `json:"country"`
	Notes         *string          `json:"notes"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

// Stats summarises an affiliate's referral and commission position.
type Stats struct {
	AffiliateID        uint            `json:"affiliate_id"`
	TotalReferrals     int64           `json:"total_referrals"`
	ConvertedReferrals int64           `json:"converted_referrals"`
	ConversionRate     float64         `json:"conversion_rate"`
	PendingCommission  decimal.Decimal `json:"pending_commission"`
	ApprovedCommission decimal.Decimal `json:"approved_commission"`
	PaidCommission     decimal.Decimal `json:"paid_commission"`
	TotalCommission    decimal.Decimal `json:"total_commission"`
}

// MonthlyStat is one month of referral performance.
type MonthlyStat struct {
	Month       string          `json:"month"`
	Referrals   int             `json:"referrals"`
	Conversions int             `json:"conversions"`
	Commission  decimal.Decimal `json:"commission"`
}

// LifetimeValue is the long-run performance report for one affiliate.
type LifetimeValue struct {
	AffiliateID           uint            `json:"affiliate_id"`
	TotalReferrals        int64           `json:"total_referrals"`
	ConvertedReferrals    int64           `json:"converted_referrals"`
	ConversionRate        float64         `json:"conversion_rate"`
	TotalCommissionEarned decimal.Decimal `json:"total_commission_earned"`
	AvgCommission         decimal.Decimal `json:"average_commission_per_referral"`
	MonthlyPerformance    []MonthlyStat   `json:"monthly_performance"`
	CalculatedAt          time.Time       `json:"calculated_at"`
}
