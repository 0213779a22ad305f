package repositories

import (
	"errors"
	"time"

	"refshare/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrPayoutNotFound  = errors.New("payout not found")
	ErrDuplicatePayout = errors.New("payout already exists for period")
)

// PayoutFilter narrows payout listings.
type PayoutFilter struct {
	AffiliateID uint
	Status      string
	From        *time.Time
	To          *time.Time
}

// PayoutStats aggregates payout totals for reporting.
type PayoutStats struct {
	TotalPayouts    int64           `json:"total_payouts"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PendingPayouts  int64           `json:"pending_payouts"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
	CompletedPayouts int64          `json:"completed_payouts"`
	CompletedAmount decimal.Decimal `json:"completed_amount"`
}

// PayoutRepository defines the interface for payout-related database
// operations. Payout creation is all-or-nothing per affiliate: the payout row,
// its line items and the paid-status transitions commit in one transaction.
type PayoutRepository interface {
	// GetByAffiliateAndPeriod retrieves the payout for an (affiliate, period)
	// pair; the batch job uses it as its idempotency check
	GetByAffiliateAndPeriod(affiliateID uint, periodStart, periodEnd time.Time) (*models.Payout, error)

	// CreateWithLineItems creates the payout, one line item per commission,
	// and marks the included commissions and referrals paid, atomically
	CreateWithLineItems(payout *models.Payout, commissions []*models.Commission) error

	// GetByID retrieves a payout with its line items
	GetByID(id uint) (*models.Payout, error)

	// UpdateStatus moves the payout through its lifecycle; completion stamps
	// the payout date, failure records the reason
	UpdateStatus(id uint, status, reference, failureReason string) error

	// List retrieves payouts with pagination, newest first
	List(filter PayoutFilter, offset, limit int) ([]*models.Payout, int64, error)

	// Stats aggregates payout counts and amounts, optionally per affiliate
	Stats(affiliateID uint) (*PayoutStats, error)
}

// Implementation is in payout_repository_impl.go
