package repositories

import (
	"errors"
	"time"

	"refshare/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrReferralNotFound         = errors.New("referral not found")
	ErrDuplicateReferral        = errors.New("user already has a referral")
	ErrReferralAlreadyConverted = errors.New("referral already converted")
)

// ReferralFilter narrows referral listings.
type ReferralFilter struct {
	AffiliateID uint
	Status      string
	From        *time.Time
	To          *time.Time
}

// ReferralRepository defines the interface for referral-related database operations
type ReferralRepository interface {
	// Create creates a new referral; at most one referral may exist per
	// referred user, enforced by a unique index
	Create(referral *models.Referral) error

	// GetByID retrieves a referral by ID
	GetByID(id uint) (*models.Referral, error)

	// GetByReferredUserID retrieves the referral for a referred user
	GetByReferredUserID(userID uint) (*models.Referral, error)

	// MarkConverted records the conversion exactly once. The update is guarded
	// so a second conversion attempt fails with ErrReferralAlreadyConverted
	MarkConverted(id uint, conversionValue, commissionAmount decimal.Decimal, at time.Time) error

	// List retrieves referrals with pagination, newest first
	List(filter ReferralFilter, offset, limit int) ([]*models.Referral, int64, error)

	// RecentByAffiliate returns referrals recorded since the given time
	RecentByAffiliate(affiliateID uint, since time.Time) ([]*models.Referral, error)

	// ConversionCounts returns total and converted referral counts for an
	// affiliate; a zero ID aggregates across all affiliates
	ConversionCounts(affiliateID uint) (total int64, converted int64, err error)

	// CommissionSums returns commission totals keyed by status for an
	// affiliate; a zero ID aggregates across all affiliates
	CommissionSums(affiliateID uint) (map[string]decimal.Decimal, error)
}

// Implementation is in referral_repository_impl.go
