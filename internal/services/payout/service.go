package payout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"refshare/internal/models"
	"refshare/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service generates and tracks monthly affiliate payouts.
type Service interface {
	// Generate builds payouts for one calendar month. It is idempotent: an
	// affiliate who already has a payout for the period is skipped
	Generate(ctx context.Context, year int, month time.Month) (*BatchResult, error)

	// CreateForAffiliate builds a payout for a single affiliate covering an
	// arbitrary period. Unlike the batch it has no minimum threshold and
	// errors when the period holds no approved commissions
	CreateForAffiliate(ctx context.Context, affiliateID uint, periodStart, periodEnd time.Time) (*models.Payout, error)

	// UpdateStatus moves a payout through pending -> processing ->
	// completed/failed
	UpdateStatus(ctx context.Context, payoutID uint, status, reference, failureReason string) error

	// GetPayout retrieves a payout with its line items
	GetPayout(ctx context.Context, id uint) (*models.Payout, error)

	// List retrieves payouts with pagination, newest first
	List(ctx context.Context, filter repositories.PayoutFilter, offset, limit int) ([]*models.Payout, int64, error)

	// Stats aggregates payout counts and amounts, optionally per affiliate
	Stats(ctx context.Context, affiliateID uint) (*repositories.PayoutStats, error)
}

type service struct {
	payouts     repositories.PayoutRepository
	commissions repositories.CommissionRepository
	affiliates  repositories.AffiliateRepository
	activity    repositories.ActivityLogRepository
	minimum     decimal.Decimal
}

func NewService(payouts repositories.PayoutRepository, commissions repositories.CommissionRepository, affiliates repositories.AffiliateRepository, activity repositories.ActivityLogRepository) Service {
	if payouts == nil {
		panic("payout repository is required")
	}
	if commissions == nil {
		panic("commission repository is required")
	}
	if affiliates == nil {
		panic("affiliate repository is required")
	}
	return &service{
		payouts:     payouts,
		commissions: commissions,
		affiliates:  affiliates,
		activity:    activity,
		minimum:     MinimumPayout,
	}
}

func (s *service) Generate(ctx context.Context, year int, month time.Month) (*BatchResult, error) {
	if month < time.January || month > time.December || year < 2000 {
		return nil, ErrInvalidPeriod
	}

	periodStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0).Add(-time.Second)

	approved, err := s.commissions.ApprovedForActiveAffiliates(periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved commissions: %w", err)
	}

	result := &BatchResult{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		TotalAmount: decimal.Zero,
	}

	// Commissions arrive ordered by affiliate, so grouping is a single pass.
	groups := make(map[uint][]*models.Commission)
	var order []uint
	for _, c := range approved {
		if _, seen := groups[c.AffiliateID]; !seen {
			order = append(order, c.AffiliateID)
		}
		groups[c.AffiliateID] = append(groups[c.AffiliateID], c)
	}

	for _, affiliateID := range order {
		batch := groups[affiliateID]

		total := decimal.Zero
		for _, c := range batch {
			total = total.Add(c.CommissionAmount)
		}
		total = total.Round(2)

		if total.LessThan(s.minimum) {
			result.Skipped = append(result.Skipped, SkippedAffiliate{
				AffiliateID: affiliateID,
				Amount:      total,
				Reason:      "below minimum payout",
			})
			continue
		}

		if _, err := s.payouts.GetByAffiliateAndPeriod(affiliateID, periodStart, periodEnd); err == nil {
			result.Skipped = append(result.Skipped, SkippedAffiliate{
				AffiliateID: affiliateID,
				Amount:      total,
				Reason:      "payout already exists for period",
			})
			continue
		} else if !errors.Is(err, repositories.ErrPayoutNotFound) {
			return nil, fmt.Errorf("failed to check existing payout for affiliate %d: %w", affiliateID, err)
		}

		payout := &models.Payout{
			AffiliateID:   affiliateID,
			PeriodStart:   periodStart,
			PeriodEnd:     periodEnd,
			TotalAmount:   total,
			ReferralCount: len(batch),
			Status:        models.PayoutStatusPending,
			Reference:     uuid.New().String(),
		}

		if err := s.payouts.CreateWithLineItems(payout, batch); err != nil {
			if errors.Is(err, repositories.ErrDuplicatePayout) {
				// Lost a race with a concurrent run for the same period.
				result.Skipped = append(result.Skipped, SkippedAffiliate{
					AffiliateID: affiliateID,
					Amount:      total,
					Reason:      "payout already exists for period",
				})
				continue
			}
			return nil, fmt.Errorf("failed to create payout for affiliate %d: %w", affiliateID, err)
		}

		result.PayoutCount++
		result.TotalAmount = result.TotalAmount.Add(total)
		result.Payouts = append(result.Payouts, PayoutSummary{
			PayoutID:    payout.ID,
			AffiliateID: affiliateID,
			Amount:      total,
			Commissions: len(batch),
			Reference:   payout.Reference,
		})

		s.logActivity(affiliateID, models.ActivityPayoutCreated,
			fmt.Sprintf("Payout of %s created for period %s", total.StringFixed(2), periodStart.Format("2006-01")),
			models.JSON{
				"payout_id": payout.ID,
				"amount":    total.StringFixed(2),
				"reference": payout.Reference,
			})
	}

	return result, nil
}

func (s *service) CreateForAffiliate(ctx context.Context, affiliateID uint, periodStart, periodEnd time.Time) (*models.Payout, error) {
	if periodStart.IsZero() || periodEnd.IsZero() || !periodEnd.After(periodStart) {
		return nil, ErrInvalidPeriod
	}

	affiliate, err := s.affiliates.GetByID(affiliateID)
	if err != nil {
		return nil, err
	}

	approved, err := s.commissions.ApprovedForAffiliate(affiliateID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved commissions: %w", err)
	}
	if len(approved) == 0 {
		return nil, ErrNoApprovedCommissions
	}

	total := decimal.Zero
	for _, c := range approved {
		total = total.Add(c.CommissionAmount)
	}
	total = total.Round(2)

	if _, err := s.payouts.GetByAffiliateAndPeriod(affiliateID, periodStart, periodEnd); err == nil {
		return nil, repositories.ErrDuplicatePayout
	} else if !errors.Is(err, repositories.ErrPayoutNotFound) {
		return nil, fmt.Errorf("failed to check existing payout for affiliate %d: %w", affiliateID, err)
	}

	payout := &models.Payout{
		AffiliateID:   affiliateID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		TotalAmount:   total,
		ReferralCount: len(approved),
		Status:        models.PayoutStatusPending,
		PayoutMethod:  affiliate.PayoutMethod,
		Reference:     uuid.New().String(),
	}

	if err := s.payouts.CreateWithLineItems(payout, approved); err != nil {
		return nil, err
	}

	s.logActivity(affiliateID, models.ActivityPayoutCreated,
		fmt.Sprintf("Payout of %s created covering %d commissions", total.StringFixed(2), len(approved)),
		models.JSON{
			"payout_id": payout.ID,
			"amount":    total.StringFixed(2),
			"reference": payout.Reference,
		})

	return payout, nil
}

func (s *service) UpdateStatus(ctx context.Context, payoutID uint, status, reference, failureReason string) error {
	switch status {
	case models.PayoutStatusProcessing, models.PayoutStatusCompleted, models.PayoutStatusFailed:
	default:
		return ErrInvalidStatus
	}
	return s.payouts.UpdateStatus(payoutID, status, reference, failureReason)
}

func (s *service) GetPayout(ctx context.Context, id uint) (*models.Payout, error) {
	return s.payouts.GetByID(id)
}

func (s *service) List(ctx context.Context, filter repositories.PayoutFilter, offset, limit int) ([]*models.Payout, int64, error) {
	return s.payouts.List(filter, offset, limit)
}

func (s *service) Stats(ctx context.Context, affiliateID uint) (*repositories.PayoutStats, error) {
	return s.payouts.Stats(affiliateID)
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
