package repositories

import (
	"errors"
	"time"

	"refshare/internal/models"

	"gorm.io/gorm"
)

var ErrFraudFlagNotFound = errors.New("fraud flag not found")

// FraudFlagRepository persists review flags raised against affiliates.
type FraudFlagRepository interface {
	// CreateFlag records a new flag
	CreateFlag(flag *models.FraudFlag) error

	// HasActiveFlag reports whether the affiliate carries an unresolved flag
	HasActiveFlag(affiliateID uint) (bool, error)

	// ListByAffiliate returns an affiliate's flags, newest first
	ListByAffiliate(affiliateID uint) ([]*models.FraudFlag, error)

	// ResolveFlag marks a flag resolved
	ResolveFlag(id uint) error
}

type fraudFlagRepository struct {
	db *gorm.DB
}

// NewFraudFlagRepository creates a new instance of FraudFlagRepository
func NewFraudFlagRepository(db *gorm.DB) FraudFlagRepository {
	return &fraudFlagRepository{db: db}
}

func (r *fraudFlagRepository) CreateFlag(flag *models.FraudFlag) error {
	if err := r.db.Create(flag).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *fraudFlagRepository) HasActiveFlag(affiliateID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.FraudFlag{}).
		Where("affiliate_id = ? AND status = ?", affiliateID, models.FraudFlagStatusActive).
		Count(&count).Error
	if err != nil {
		return false, ErrDatabaseOperation
	}
	return count > 0, nil
}

func (r *fraudFlagRepository) ListByAffiliate(affiliateID uint) ([]*models.FraudFlag, error) {
	var flags []*models.FraudFlag
	if err := r.db.Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").Find(&flags).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return flags, nil
}

func (r *fraudFlagRepository) ResolveFlag(id uint) error {
	result := r.db.Model(&models.FraudFlag{}).
		Where("id = ? AND status = ?", id, models.FraudFlagStatusActive).
		Updates(map[string]interface{}{
			"status":      models.FraudFlagStatusResolved,
			"resolved_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrFraudFlagNotFound
	}
	return nil
}
