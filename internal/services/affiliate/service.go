package affiliate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"refshare/internal/models"
	"refshare/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const codeGenerationAttempts = 5

// Service manages affiliate accounts and their performance reporting.
type Service interface {
	// Create enrolls a new affiliate with a generated unique referral code
	Create(ctx context.Context, input CreateInput) (*models.Affiliate, error)

	// Get retrieves an affiliate by id
	Get(ctx context.Context, id uint) (*models.Affiliate, error)

	// GetByReferralCode retrieves an affiliate by its referral code
	GetByReferralCode(ctx context.Context, code string) (*models.Affiliate, error)

	// Update applies partial changes to an affiliate
	Update(ctx context.Context, id uint, input UpdateInput) (*models.Affiliate, error)

	// UpdateStatus transitions the affiliate's lifecycle status
	UpdateStatus(ctx context.Context, id uint, status string, changedBy uint) error

	// List retrieves affiliates with pagination and status/search filters
	List(ctx context.Context, filter repositories.AffiliateFilter, offset, limit int) ([]*models.Affiliate, int64, error)

	// Stats summarises referral counts and commission totals
	Stats(ctx context.Context, id uint) (*Stats, error)

	// LifetimeValue builds the long-run performance report
	LifetimeValue(ctx context.Context, id uint) (*LifetimeValue, error)

	// ActivityFeed returns the affiliate's audit trail, newest first
	ActivityFeed(ctx context.Context, id uint, offset, limit int) ([]*models.ActivityLog, int64, error)
}

type service struct {
	affiliates repositories.AffiliateRepository
	referrals  repositories.ReferralRepository
	activity   repositories.ActivityLogRepository
	now        func() time.Time
}

func NewService(affiliates repositories.AffiliateRepository, referrals repositories.ReferralRepository, activity repositories.ActivityLogRepository) Service {
	if affiliates == nil {
		panic("affiliate repository is required")
	}
	if referrals == nil {
		panic("referral repository is required")
	}
	return &service{
		affiliates: affiliates,
		referrals:  referrals,
		activity:   activity,
		now:        time.Now,
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Affiliate, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" {
		return nil, ErrMissingEmail
	}
	if input.FirstName == "" || input.LastName == "" {
		return nil, ErrMissingName
	}

	rate := input.CommissionRate
	if rate.IsZero() {
		rate = decimal.RequireFromString("0.20")
	}
	if rate.Sign() < 0 || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidRate
	}

	code, err := s.generateReferralCode()
	if err != nil {
		return nil, err
	}

	payoutMethod := input.PayoutMethod
	if payoutMethod == "" {
		payoutMethod = models.PayoutMethodBankTransfer
	}

	affiliate := &models.Affiliate{
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		CompanyName:    input.CompanyName,
		Phone:          input.Phone,
		Website:        input.Website,
		ReferralCode:   code,
		CommissionRate: rate,
		Status:         models.AffiliateStatusPending,
		PayoutMethod:   payoutMethod,
		PayoutDetails:  input.PayoutDetails,
		TaxID:          input.TaxID,
		Country:        input.Country,
	}
	if err := s.affiliates.Create(affiliate); err != nil {
		return nil, err
	}
	return affiliate, nil
}

// generateReferralCode derives short uppercase codes from random UUIDs until
// one is free.
func (s *service) generateReferralCode() (string, error) {
	for i := 0; i < codeGenerationAttempts; i++ {
		code := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
		exists, err := s.affiliates.ReferralCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGeneration
}

func (s *service) Get(ctx context.Context, id uint) (*models.Affiliate, error) {
	return s.affiliates.GetByID(id)
}

func (s *service) GetByReferralCode(ctx context.Context, code string) (*models.Affiliate, error) {
	return s.affiliates.GetByReferralCode(strings.ToUpper(strings.TrimSpace(code)))
}

func (s *service) Update(ctx context.Context, id uint, input UpdateInput) (*models.Affiliate, error) {
	affiliate, err := s.affiliates.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		affiliate.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		affiliate.LastName = *input.LastName
	}
	if input.CompanyName != nil {
		affiliate.CompanyName = *input.CompanyName
	}
	if input.Phone != nil {
		affiliate.Phone = *input.Phone
	}
	if input.Website != nil {
		affiliate.Website = *input.Website
	}
	if input.PayoutMethod != nil {
		affiliate.PayoutMethod = *input.PayoutMethod
	}
	if input.PayoutDetails != nil {
		affiliate.PayoutDetails = *input.PayoutDetails
	}
	if input.TaxID != nil {
		affiliate.TaxID = *input.TaxID
	}
	if input.Country != nil {
		affiliate.Country = *input.Country
	}
	if input.Notes != nil {
		affiliate.Notes = *input.Notes
	}
	if input.CommissionRate != nil {
		rate := *input.CommissionRate
		if rate.Sign() < 0 || rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, ErrInvalidRate
		}
		affiliate.CommissionRate = rate
	}

	if err := s.affiliates.Update(affiliate); err != nil {
		return nil, err
	}
	return affiliate, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uint, status string, changedBy uint) error {
	switch status {
	case models.AffiliateStatusPending, models.AffiliateStatusActive,
		models.AffiliateStatusSuspended, models.AffiliateStatusTerminated:
	default:
		return ErrInvalidStatus
	}

	if _, err := s.affiliates.GetByID(id); err != nil {
		return err
	}
	if err := s.affiliates.UpdateStatus(id, status); err != nil {
		return err
	}

	s.logActivity(id, models.ActivityStatusChanged,
		fmt.Sprintf("Affiliate status changed to %s", status),
		models.JSON{
			"status":     status,
			"changed_by": changedBy,
		})
	return nil
}

func (s *service) List(ctx context.Context, filter repositories.AffiliateFilter, offset, limit int) ([]*models.Affiliate, int64, error) {
	return s.affiliates.List(filter, offset, limit)
}

func (s *service) Stats(ctx context.Context, id uint) (*Stats, error) {
	if _, err := s.affiliates.GetByID(id); err != nil {
		return nil, err
	}

	total, converted, err := s.referrals.ConversionCounts(id)
	if err != nil {
		return nil, err
	}
	sums, err := s.referrals.CommissionSums(id)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		AffiliateID:        id,
		TotalReferrals:     total,
		ConvertedReferrals: converted,
		PendingCommission:  sums[models.CommissionStatusPending],
		ApprovedCommission: sums[models.CommissionStatusApproved],
		PaidCommission:     sums[models.CommissionStatusPaid],
	}
	if total > 0 {
		stats.ConversionRate = float64(converted) / float64(total) * 100
	}
	stats.TotalCommission = stats.PendingCommission.
		Add(stats.ApprovedCommission).
		Add(stats.PaidCommission)
	return stats, nil
}

func (s *service) LifetimeValue(ctx context.Context, id uint) (*LifetimeValue, error) {
	if _, err := s.affiliates.GetByID(id); err != nil {
		return nil, err
	}

	total, converted, err := s.referrals.ConversionCounts(id)
	if err != nil {
		return nil, err
	}
	sums, err := s.referrals.CommissionSums(id)
	if err != nil {
		return nil, err
	}

	earned := decimal.Zero
	for _, amount := range sums {
		earned = earned.Add(amount)
	}

	avg := decimal.Zero
	if converted > 0 {
		avg = earned.Div(decimal.NewFromInt(converted)).Round(2)
	}

	now := s.now().UTC()
	monthly, err := s.monthlyPerformance(id, now)
	if err != nil {
		return nil, err
	}

	report := &LifetimeValue{
		AffiliateID:           id,
		TotalReferrals:        total,
		ConvertedReferrals:    converted,
		TotalCommissionEarned: earned,
		AvgCommission:         avg,
		MonthlyPerformance:    monthly,
		CalculatedAt:          now,
	}
	if total > 0 {
		report.ConversionRate = float64(converted) / float64(total) * 100
	}
	return report, nil
}

// monthlyPerformance buckets the trailing year of referrals by calendar month,
// oldest first.
func (s *service) monthlyPerformance(id uint, now time.Time) ([]MonthlyStat, error) {
	since := now.AddDate(-1, 0, 0)
	recent, err := s.referrals.RecentByAffiliate(id, since)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*MonthlyStat)
	var order []string
	for _, r := range recent {
		month := r.ReferredAt.UTC().Format("2006-01")
		stat, ok := buckets[month]
		if !ok {
			stat = &MonthlyStat{Month: month, Commission: decimal.Zero}
			buckets[month] = stat
			order = append(order, month)
		}
		stat.Referrals++
		if r.Converted() {
			stat.Conversions++
			stat.Commission = stat.Commission.Add(r.CommissionAmount)
		}
	}

	// RecentByAffiliate returns newest first; the report reads oldest first.
	monthly := make([]MonthlyStat, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		monthly = append(monthly, *buckets[order[i]])
	}
	return monthly, nil
}

func (s *service) ActivityFeed(ctx context.Context, id uint, offset, limit int) ([]*models.ActivityLog, int64, error) {
	if s.activity == nil {
		return nil, 0, nil
	}
	return s.activity.ListByAffiliate(id, offset, limit)
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
