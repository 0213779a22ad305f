package commission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"refshare/internal/models"
	"refshare/internal/repositories"

	"github.com/shopspring/decimal"
)

type service struct {
	referrals   repositories.ReferralRepository
	commissions repositories.CommissionRepository
	activity    repositories.ActivityLogRepository
	calculator  *Calculator
	policy      ApprovalPolicy
}

// NewService creates a new revenue processing service.
func NewService(
	referrals repositories.ReferralRepository,
	commissions repositories.CommissionRepository,
	activity repositories.ActivityLogRepository,
	calculator *Calculator,
	policy ApprovalPolicy,
) Service {
	if referrals == nil {
		panic("referral repository is required")
	}
	if commissions == nil {
		panic("commission repository is required")
	}
	if calculator == nil {
		panic("calculator is required")
	}
	if policy == nil {
		panic("approval policy is required")
	}

	return &service{
		referrals:   referrals,
		commissions: commissions,
		activity:    activity,
		calculator:  calculator,
		policy:      policy,
	}
}

func (s *service) ProcessPayment(ctx context.Context, event PaymentEvent) (*PaymentResult, error) {
	if event.PaymentID == "" {
		return nil, ErrMissingPaymentID
	}

	referral, err := s.referrals.GetByReferredUserID(event.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrReferralNotFound) {
			return &PaymentResult{
				Success:          true,
				CommissionAmount: decimal.Zero,
				Message:          "no referral found for user",
			}, nil
		}
		return nil, fmt.Errorf("failed to resolve referral for user %d: %w", event.UserID, err)
	}

	if referral.Converted() {
		return nil, fmt.Errorf("referral %d: %w", referral.ID, ErrAlreadyConverted)
	}

	rate := s.calculator.RateFor(event.SubscriptionType)
	commissionAmount := s.calculator.CalculateFromFloat(event.Amount, rate)
	paymentAmount := finiteDecimal(event.Amount)
	now := time.Now().UTC()

	// Claiming the conversion first makes the referral the exclusive-
	// acquisition point: a racing duplicate event fails here before any
	// commission row exists.
	if err := s.referrals.MarkConverted(referral.ID, paymentAmount, commissionAmount, now); err != nil {
		if errors.Is(err, repositories.ErrReferralAlreadyConverted) {
			return nil, fmt.Errorf("referral %d: %w", referral.ID, ErrAlreadyConverted)
		}
		return nil, fmt.Errorf("failed to mark referral %d converted: %w", referral.ID, err)
	}

	subscriptionType := event.SubscriptionType
	if subscriptionType == "" {
		subscriptionType = SubscriptionStandard
	}

	commission := &models.Commission{
		ReferralID:       referral.ID,
		AffiliateID:      referral.AffiliateID,
		PaymentID:        event.PaymentID,
		PaymentAmount:    paymentAmount,
		CommissionAmount: commissionAmount,
		CommissionRate:   rate,
		SubscriptionType: subscriptionType,
		Status:           models.CommissionStatusPending,
	}
	if err := s.commissions.Create(commission); err != nil {
		return nil, fmt.Errorf("failed to create commission for payment %s: %w", event.PaymentID, err)
	}

	result := &PaymentResult{
		Success:           true,
		CommissionCreated: true,
		CommissionID:      commission.ID,
		CommissionAmount:  commissionAmount,
	}

	autoApprove, err := s.policy.ShouldAutoApprove(ctx, referral.AffiliateID)
	if err != nil {
		log.Printf("auto-approval check failed for affiliate %d: %v", referral.AffiliateID, err)
		autoApprove = false
	}
	if autoApprove {
		if err := s.commissions.Approve(commission.ID, 0, "auto-approved", time.Now().UTC()); err != nil {
			log.Printf("auto-approval failed for commission %d: %v", commission.ID, err)
		} else {
			result.AutoApproved = true
		}
	}

	s.logActivity(referral.AffiliateID, models.ActivityCommissionEarned,
		fmt.Sprintf("Commission of %s earned for payment %s", commissionAmount.StringFixed(2), event.PaymentID),
		models.JSON{
			"commission_id": commission.ID,
			"payment_id":    event.PaymentID,
			"auto_approved": result.AutoApproved,
		})

	return result, nil
}

func (s *service) ProcessRefund(ctx context.Context, event RefundEvent) (*RefundResult, error) {
	if event.PaymentID == "" {
		return nil, ErrMissingPaymentID
	}

	commission, err := s.commissions.GetByPaymentID(event.PaymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrCommissionNotFound) {
			return &RefundResult{
				Success:             true,
				AdjustmentAmount:    decimal.Zero,
				NewCommissionAmount: decimal.Zero,
				Message:             "no commission found for payment",
			}, nil
		}
		return nil, fmt.Errorf("failed to look up commission for payment %s: %w", event.PaymentID, err)
	}

	refundAmount := finiteDecimal(event.Amount)
	share, err := s.calculator.RefundShare(refundAmount, commission.PaymentAmount, commission.CommissionAmount)
	if err != nil {
		return nil, fmt.Errorf("refund for payment %s rejected: %w", event.PaymentID, err)
	}

	newAmount := commission.CommissionAmount.Sub(share)
	if newAmount.Sign() < 0 {
		// A full refund nets the commission to zero, never below.
		newAmount = decimal.Zero.Round(2)
	}

	adjustment := &models.CommissionAdjustment{
		CommissionID:   commission.ID,
		AdjustmentType: models.AdjustmentTypeRefund,
		Amount:         share.Neg(),
		Reason:         fmt.Sprintf("Refund of %s", refundAmount.StringFixed(2)),
	}
	if err := s.commissions.ApplyAdjustment(adjustment, newAmount); err != nil {
		return nil, fmt.Errorf("failed to adjust commission %d: %w", commission.ID, err)
	}

	s.logActivity(commission.AffiliateID, models.ActivityCommissionAdjusted,
		fmt.Sprintf("Commission %d reduced by %s for refund on payment %s",
			commission.ID, share.StringFixed(2), event.PaymentID),
		models.JSON{
			"commission_id": commission.ID,
			"payment_id":    event.PaymentID,
			"adjustment":    share.Neg().StringFixed(2),
		})

	return &RefundResult{
		Success:             true,
		CommissionAdjusted:  true,
		AdjustmentAmount:    share,
		NewCommissionAmount: newAmount,
	}, nil
}

func (s *service) GetCommission(ctx context.Context, id uint) (*models.Commission, []*models.CommissionAdjustment, error) {
	commission, err := s.commissions.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	adjustments, err := s.commissions.ListAdjustments(id)
	if err != nil {
		return nil, nil, err
	}
	return commission, adjustments, nil
}

// logActivity writes an audit entry. Audit failures are reported and
// swallowed; they never unwind the transition they describe.
func (s *service) logActivity(affiliateID uint, activityType, description string, metadata models.JSON) {
	if s.activity == nil {
		return
	}
	entry := &models.ActivityLog{
		AffiliateID:  affiliateID,
		ActivityType: activityType,
		Description:  description,
		Metadata:     metadata,
	}
	if err := s.activity.Log(entry); err != nil {
		log.Printf("failed to write activity log for affiliate %d: %v", affiliateID, err)
	}
}

// finiteDecimal converts a float to decimal, treating NaN and infinities as
// zero so a malformed event cannot panic the conversion.
func finiteDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
