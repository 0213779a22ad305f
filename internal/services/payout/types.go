package payout

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutSummary is one generated payout inside a batch result.
type PayoutSummary struct {
	PayoutID    uint            `json:"payout_id"`
	AffiliateID uint            `json:"affiliate_id"`
	Amount      decimal.Decimal `json:"amount"`
	Commissions int             `json:"commissions"`
	Reference   string          `json:"reference"`
}

// SkippedAffiliate records an affiliate the batch run passed over and why.
type SkippedAffiliate struct {
	AffiliateID uint            `json:"affiliate_id"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
}

// BatchResult summarises one monthly payout generation run.
type BatchResult struct {
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	PayoutCount int                `json:"payout_count"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Payouts     []PayoutSummary    `json:"payouts"`
	Skipped     []SkippedAffiliate `json:"skipped,omitempty"`
}
