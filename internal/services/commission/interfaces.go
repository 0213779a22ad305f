package commission

import (
	"context"

	"refshare/internal/models"
)

// Service processes payment and refund events into commission records.
type Service interface {
	// ProcessPayment resolves the payer's referral, creates a pending
	// commission, marks the referral converted and applies auto-approval
	ProcessPayment(ctx context.Context, event PaymentEvent) (*PaymentResult, error)

	// ProcessRefund locates the payment's commission and applies a
	// proportional negative adjustment
	ProcessRefund(ctx context.Context, event RefundEvent) (*RefundResult, error)

	// GetCommission retrieves a commission with its adjustment history
	GetCommission(ctx context.Context, id uint) (*models.Commission, []*models.CommissionAdjustment, error)
}

// ApprovalPolicy decides whether a new commission may skip manual review.
// Implementations typically look at affiliate standing and history.
type ApprovalPolicy interface {
	ShouldAutoApprove(ctx context.Context, affiliateID uint) (bool, error)
}
