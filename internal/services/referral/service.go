package referral

import (
	"context"
	"fmt"
	"log"
	"math"

	"refshare/internal/models"
	"refshare/internal/repositories"
	"refshare/internal/services/commission"

	"github.com/google/uuid"
)

// Service records signup attributions and drives manual conversions.
type Service interface {
	// Create records a referral for a newly signed-up user, attributed by
	// affiliate id or referral code
	Create(ctx context.Context, input CreateInput) (*models.Referral, error)

	// Convert runs the manual conversion path, mirroring what a payment
	// webhook would do
	Convert(ctx context.Context, input ConvertInput) (*commission.PaymentResult, error)

	// Get retrieves a referral by id
	Get(ctx context.Context, id uint) (*models.Referral, error)

	// GetByReferredUser retrieves the referral attributed to a user
	GetByReferredUser(ctx context.Context, userID uint) (*models.Referral, error)

	// List retrieves referrals with pagination, newest first
	List(ctx context.Context, filter repositories.ReferralFilter, offset, limit int) ([]*models.Referral, int64, error)

	// Stats aggregates referral counts and commission totals; a zero
	// affiliate ID reports across the whole program
	Stats(ctx context.Context, affiliateID uint) (*Stats, error)
}

type service struct {
	affiliates  repositories.AffiliateRepository
	referrals   repositories.ReferralRepository
	activity    repositories.ActivityLogRepository
	commissions commission.Service
}

func NewService(
	affiliates repositories.AffiliateRepository,
	referrals repositories.ReferralRepository,
	activity repositories.ActivityLogRepository,
	commissions commission.Service,
) Service {
	if affiliates == nil {
		panic("affiliate repository is required")
	}
	if referrals == nil {
		panic("referral repository is required")
	}
	if commissions == nil {
		panic("commission service is required")
	}
	return &service{
		affiliates:  affiliates,
		referrals:   referrals,
		activity:    activity,
		commissions: commissions,
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Referral, error) {
	if input.ReferredUserID == 0 {
		return nil, ErrMissingUser
	}

	affiliate, err := s.resolveAffiliate(input)
	if err != nil {
		return nil, err
	}
	if affiliate.Status == models.AffiliateStatusSuspended ||
		affiliate.Status == models.AffiliateStatusTerminated {
		return nil, ErrAffiliateInactive
	}

	referral := &models.Referral{
		AffiliateID:    affiliate.ID,
		ReferredUserID: input.ReferredUserID,
		ReferralSource: input.ReferralSource,
		IPAddress:      input.IPAddress,
		UserAgent:      input.UserAgent,
		UTMSource:      input.UTMSource,
		UTMMedium:      input.UTMMedium,
		UTMCampaign:    input.UTMCampaign,
		UTMContent:     input.UTMContent,
		UTMTerm:        input.UTMTerm,
		CommissionStatus: models.CommissionStatusPending,
	}
	if err := s.referrals.Create(referral); err != nil {
		return nil, err
	}

	s.logActivity(affiliate.ID, models.ActivityReferralCreated,
		fmt.Sprintf("Referral recorded for user %d", input.ReferredUserID),
		models.JSON{
			"referral_id":      referral.ID,
			"referred_user_id": input.ReferredUserID,
			"source":           input.ReferralSource,
		})

	return referral, nil
}

func (s *service) resolveAffiliate(input CreateInput) (*models.Affiliate, error) {
	if input.AffiliateID != 0 {
		return s.affiliates.GetByID(input.AffiliateID)
	}
	if input.ReferralCode != "" {
		return s.affiliates.GetByReferralCode(input.ReferralCode)
	}
	return nil, ErrMissingAffiliate
}

func (s *service) Convert(ctx context.Context, input ConvertInput) (*commission.PaymentResult, error) {
	referral, err := s.referrals.GetByID(input.ReferralID)
	if err != nil {
		return nil, err
	}

	paymentID := input.PaymentID
	if paymentID == "" {
		paymentID = "manual-" + uuid.New().String()
	}

	return s.commissions.ProcessPayment(ctx, commission.PaymentEvent{
		PaymentID:        paymentID,
		Amount:           input.Amount,
		UserID:           referral.ReferredUserID,
		SubscriptionType: input.SubscriptionType,
	})
}

func (s *service) Get(ctx context.Context, id uint) (*models.Referral, error) {
	return s.referrals.GetByID(id)
}

func (s *service) GetByReferredUser(ctx context.Context, userID uint) (*models.Referral, error) {
	return s.referrals.GetByReferredUserID(userID)
}

func (s *service) List(ctx context.Context, filter repositories.ReferralFilter, offset, limit int) ([]*models.Referral, int64, error) {
	return s.referrals.List(filter, offset, limit)
}

func (s *service) Stats(ctx context.Context, affiliateID uint) (*Stats, error) {
	total, converted, err := s.referrals.ConversionCounts(affiliateID)
	if err != nil {
		return nil, err
	}

	sums, err := s.referrals.CommissionSums(affiliateID)
	if err != nil {
		return nil, err
	}

	pending := sums[models.CommissionStatusPending]
	approved := sums[models.CommissionStatusApproved]
	paid := sums[models.CommissionStatusPaid]

	stats := &Stats{
		TotalReferrals:     total,
		ConvertedReferrals: converted,
		TotalCommission:    pending.Add(approved).Add(paid),
		PendingCommission:  pending,
		ApprovedCommission: approved,
		PaidCommission:     paid,
	}
	if total > 0 {
		stats.ConversionRate = math.Round(float64(converted)/float64(total)*10000) / 100
	}

	return stats, nil
}

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
