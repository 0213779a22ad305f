package repositories

import (
	"errors"

	"refshare/internal/models"
)

var (
	ErrAffiliateNotFound = errors.New("affiliate not found")
	ErrAffiliateEmailTaken = errors.New("affiliate email already taken")
	ErrDatabaseOperation   = errors.New("database operation failed")
)

// AffiliateFilter narrows affiliate listings.
type AffiliateFilter struct {
	Status string
	Search string
}

// AffiliateRepository defines the interface for affiliate-related database operations
type AffiliateRepository interface {
	// Create creates a new affiliate
	Create(affiliate *models.Affiliate) error

	// GetByID retrieves an affiliate by ID
	GetByID(id uint) (*models.Affiliate, error)

	// GetByEmail retrieves an affiliate by email
	GetByEmail(email string) (*models.Affiliate, error)

	// GetByReferralCode retrieves an affiliate by its referral code
	GetByReferralCode(code string) (*models.Affiliate, error)

	// Update updates an existing affiliate
	Update(affiliate *models.Affiliate) error

	// UpdateStatus updates the affiliate's status
	UpdateStatus(id uint, status string) error

	// List retrieves affiliates with pagination
	List(filter AffiliateFilter, offset, limit int) ([]*models.Affiliate, int64, error)

	// ReferralCodeExists reports whether a referral code is already in use
	ReferralCodeExists(code string) (bool, error)
}

// Implementation is in affiliate_repository_impl.go
