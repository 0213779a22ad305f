package fraud

import (
	"context"
	"fmt"
	"log"
	"time"

	"refshare/internal/models"
	"refshare/internal/repositories"
)

// Service assembles activity snapshots, scores them and manages review flags.
type Service interface {
	// Analyze scores an affiliate's recent referral activity. It reads the
	// snapshot and mutates nothing
	Analyze(ctx context.Context, affiliateID uint) (*Analysis, error)

	// FlagSuspicious raises a review flag against an affiliate, optionally
	// suspending the account
	FlagSuspicious(ctx context.Context, affiliateID uint, reason string, flaggedBy uint, suspend bool) (*models.FraudFlag, error)

	// ListFlags returns an affiliate's flags, newest first
	ListFlags(ctx context.Context, affiliateID uint) ([]*models.FraudFlag, error)

	// ResolveFlag marks a flag resolved so it no longer gates auto-approval
	ResolveFlag(ctx context.Context, flagID uint) error
}

type service struct {
	affiliates  repositories.AffiliateRepository
	referrals   repositories.ReferralRepository
	commissions repositories.CommissionRepository
	flags       repositories.FraudFlagRepository
	activity    repositories.ActivityLogRepository
	now         func() time.Time
}

func NewService(
	affiliates repositories.AffiliateRepository,
	referrals repositories.ReferralRepository,
	commissions repositories.CommissionRepository,
	flags repositories.FraudFlagRepository,
	activity repositories.ActivityLogRepository,
) Service {
	if affiliates == nil || referrals == nil || commissions == nil || flags == nil {
		panic("fraud service requires affiliate, referral, commission and flag repositories")
	}
	return &service{
		affiliates:  affiliates,
		referrals:   referrals,
		commissions: commissions,
		flags:       flags,
		activity:    activity,
		now:         time.Now,
	}
}

func (s *service) Analyze(ctx context.Context, affiliateID uint) (*Analysis, error) {
	if _, err := s.affiliates.GetByID(affiliateID); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshot(affiliateID)
	if err != nil {
		return nil, err
	}

	analysis := Score(*snapshot)
	if len(analysis.Indicators) > 0 {
		log.Printf("fraud indicators detected for affiliate %d: %v", affiliateID, analysis.Indicators)
	}
	return &analysis, nil
}

// snapshot gathers the affiliate's recent behaviour into a scorable Activity.
func (s *service) snapshot(affiliateID uint) (*Activity, error) {
	now := s.now().UTC()

	recent, err := s.referrals.RecentByAffiliate(affiliateID, now.Add(-SignupLookback))
	if err != nil {
		return nil, fmt.Errorf("failed to load recent referrals: %w", err)
	}

	hourly := make(map[time.Time]int)
	byIP := make(map[string]int)
	for _, r := range recent {
		hourly[r.ReferredAt.UTC().Truncate(time.Hour)]++
		if r.IPAddress != "" {
			byIP[r.IPAddress]++
		}
	}
	maxHourly := 0
	for _, n := range hourly {
		if n > maxHourly {
			maxHourly = n
		}
	}
	maxSameIP := 0
	for _, n := range byIP {
		if n > maxSameIP {
			maxSameIP = n
		}
	}

	total, converted, err := s.referrals.ConversionCounts(affiliateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversion counts: %w", err)
	}
	conversionRate := 0.0
	if total > 0 {
		conversionRate = float64(converted) / float64(total) * 100
	}

	velocity, err := s.commissions.PaymentVolumeSince(affiliateID, now.Add(-PaymentLookback))
	if err != nil {
		return nil, fmt.Errorf("failed to load payment volume: %w", err)
	}

	return &Activity{
		AffiliateID:      affiliateID,
		MaxHourlySignups: maxHourly,
		MaxSameIPSignups: maxSameIP,
		ConversionRate:   conversionRate,
		PaymentVelocity:  velocity,
	}, nil
}

func (s *service) FlagSuspicious(ctx context.Context, affiliateID uint, reason string, flaggedBy uint, suspend bool) (*models.FraudFlag, error) {
	if reason == "" {
		return nil, ErrMissingReason
	}
	if _, err := s.affiliates.GetByID(affiliateID); err != nil {
		return nil, err
	}

	flag := &models.FraudFlag{
		AffiliateID: affiliateID,
		FlagType:    models.FraudFlagSuspiciousActivity,
		Reason:      reason,
		FlaggedBy:   flaggedBy,
		Status:      models.FraudFlagStatusActive,
	}
	if err := s.flags.CreateFlag(flag); err != nil {
		return nil, fmt.Errorf("failed to create fraud flag: %w", err)
	}

	if suspend {
		if err := s.affiliates.UpdateStatus(affiliateID, models.AffiliateStatusSuspended); err != nil {
			log.Printf("failed to suspend affiliate %d: %v", affiliateID, err)
		}
	}

	s.logActivity(affiliateID, models.ActivityFraudFlagged,
		fmt.Sprintf("Affiliate flagged for review: %s", reason),
		models.JSON{
			"flag_id":    flag.ID,
			"flagged_by": flaggedBy,
			"suspended":  suspend,
		})

	return flag, nil
}

func (s *service) ListFlags(ctx context.Context, affiliateID uint) ([]*models.FraudFlag, error) {
	return s.flags.ListByAffiliate(affiliateID)
}

func (s *service) ResolveFlag(ctx context.Context, flagID uint) error {
	return s.flags.ResolveFlag(flagID)
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
