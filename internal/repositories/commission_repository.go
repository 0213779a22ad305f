package repositories

import (
	"errors"
	"time"

	"refshare/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrCommissionNotFound   = errors.New("commission not found")
	ErrCommissionNotPending = errors.New("commission is not pending")
	ErrDuplicateCommission  = errors.New("commission already exists for payment")
)

// CommissionFilter narrows commission listings.
type CommissionFilter struct {
	AffiliateID uint
	Status      string
	From        *time.Time
	To          *time.Time
}

// CommissionRepository defines the interface for commission-related database
// operations. Status transitions are guarded: the UPDATE carries the expected
// current status so concurrent approvals cannot both succeed.
type CommissionRepository interface {
	// Create creates a new commission record; the (referral, payment) pair is
	// unique so a retried webhook cannot double-book
	Create(commission *models.Commission) error

	// GetByID retrieves a commission by ID
	GetByID(id uint) (*models.Commission, error)

	// GetByPaymentID retrieves the commission created for a payment
	GetByPaymentID(paymentID string) (*models.Commission, error)

	// Approve transitions pending -> approved atomically, stamping approver and
	// timestamp on the commission and its parent referral
	Approve(id uint, approverID uint, notes string, at time.Time) error

	// Reject transitions pending -> rejected atomically, recording the reason
	Reject(id uint, rejectorID uint, reason string, at time.Time) error

	// ApplyAdjustment appends an adjustment row and stores the new net
	// commission amount in one transaction
	ApplyAdjustment(adjustment *models.CommissionAdjustment, newAmount decimal.Decimal) error

	// ApprovedForActiveAffiliates returns approved commissions of active
	// affiliates whose approval falls inside the period
	ApprovedForActiveAffiliates(periodStart, periodEnd time.Time) ([]*models.Commission, error)

	// ApprovedForAffiliate returns one affiliate's approved commissions whose
	// approval falls inside the period
	ApprovedForAffiliate(affiliateID uint, periodStart, periodEnd time.Time) ([]*models.Commission, error)

	// PaymentVolumeSince sums payment amounts recorded for an affiliate since
	// the given time
	PaymentVolumeSince(affiliateID uint, since time.Time) (decimal.Decimal, error)

	// List retrieves commissions with pagination, newest first
	List(filter CommissionFilter, offset, limit int) ([]*models.Commission, int64, error)

	// ListAdjustments returns the adjustment history of a commission
	ListAdjustments(commissionID uint) ([]*models.CommissionAdjustment, error)
}

// Implementation is in commission_repository_impl.go
