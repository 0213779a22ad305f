package commission

import (
	"context"
	"time"

	"refshare/internal/models"
	"refshare/internal/repositories"
)

// TenurePolicy auto-approves commissions for affiliates in good standing:
// active status, on the program for at least MinTenure, and no unresolved
// fraud flag. Everyone else goes through manual review.
type TenurePolicy struct {
	affiliates repositories.AffiliateRepository
	fraudFlags repositories.FraudFlagRepository
	minTenure  time.Duration
	now        func() time.Time
}

// DefaultMinTenure is how long an affiliate must have been enrolled before
// commissions skip manual review.
const DefaultMinTenure = 30 * 24 * time.Hour

func NewTenurePolicy(affiliates repositories.AffiliateRepository, fraudFlags repositories.FraudFlagRepository, minTenure time.Duration) *TenurePolicy {
	if minTenure <= 0 {
		minTenure = DefaultMinTenure
	}
	return &TenurePolicy{
		affiliates: affiliates,
		fraudFlags: fraudFlags,
		minTenure:  minTenure,
		now:        time.Now,
	}
}

func (p *TenurePolicy) ShouldAutoApprove(ctx context.Context, affiliateID uint) (bool, error) {
	affiliate, err := p.affiliates.GetByID(affiliateID)
	if err != nil {
		return false, err
	}
	if affiliate.Status != models.AffiliateStatusActive {
		return false, nil
	}
	if p.now().Sub(affiliate.CreatedAt) < p.minTenure {
		return false, nil
	}
	if p.fraudFlags != nil {
		flagged, err := p.fraudFlags.HasActiveFlag(affiliateID)
		if err != nil {
			return false, err
		}
		if flagged {
			return false, nil
		}
	}
	return true, nil
}

// ManualReviewPolicy never auto-approves. It is the safe default when the
// standing checks cannot be wired, e.g. in trimmed-down test setups.
type ManualReviewPolicy struct{}

func (ManualReviewPolicy) ShouldAutoApprove(ctx context.Context, affiliateID uint) (bool, error) {
	return false, nil
}
