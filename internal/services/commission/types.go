package commission

import "github.com/shopspring/decimal"

// PaymentEvent is an inbound payment-succeeded notification from the billing
// platform.
type PaymentEvent struct {
	PaymentID        string  `json:"payment_id"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	UserID           uint    `json:"user_id"`
	SubscriptionType string  `json:"subscription_type"`
}

// RefundEvent is an inbound payment-refunded notification.
type RefundEvent struct {
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
}

// PaymentResult reports the outcome of processing a payment event. A payment
// from a user without a referral succeeds with CommissionCreated false.
type PaymentResult struct {
	Success           bool            `json:"success"`
	CommissionCreated bool            `json:"commission_created"`
	CommissionID      uint            `json:"commission_id,omitempty"`
	CommissionAmount  decimal.Decimal `json:"commission_amount"`
	AutoApproved      bool            `json:"auto_approved"`
	Message           string          `json:"message,omitempty"`
}

// RefundResult reports the outcome of processing a refund event. A refund for
// a payment without a commission succeeds with CommissionAdjusted false.
type RefundResult struct {
	Success             bool            `json:"success"`
	CommissionAdjusted  bool            `json:"commission_adjusted"`
	AdjustmentAmount    decimal.Decimal `json:"adjustment_amount"`
	NewCommissionAmount decimal.Decimal `json:"new_commission_amount"`
	Message             string          `json:"message,omitempty"`
}
