package repositories

import (
	"context"
	"errors"
	"log"

	"refshare/internal/models"
	"refshare/internal/repositories/cache"

	"gorm.io/gorm"
)

type affiliateRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewAffiliateRepository creates a new instance of AffiliateRepository
func NewAffiliateRepository(db *gorm.DB, cache *cache.CacheService) AffiliateRepository {
	return &affiliateRepository{
		db:    db,
		cache: cache,
	}
}

func (r *affiliateRepository) Create(affiliate *models.Affiliate) error {
	if err := r.db.Create(affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAffiliateEmailTaken
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *affiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	key := r.cache.GenerateKey("affiliate", "id", id)
	if affiliate, err := r.cache.GetAffiliate(context.Background(), key); err == nil {
		return affiliate, nil
	}

	var affiliate models.Affiliate
	if err := r.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAffiliateNotFound
		}
		return nil, err
	}

	if err := r.cache.CacheAffiliate(context.Background(), &affiliate); err != nil {
		log.Printf("failed to cache affiliate %d: %v", affiliate.ID, err)
	}

	return &affiliate, nil
}

func (r *affiliateRepository) GetByEmail(email string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	if err := r.db.Where("email = ?", email).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAffiliateNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &affiliate, nil
}

func (r *affiliateRepository) GetByReferralCode(code string) (*models.Affiliate, error) {
	key := r.cache.GenerateKey("affiliate", "code", code)
	if affiliate, err := r.cache.GetAffiliate(context.Background(), key); err == nil {
		return affiliate, nil
	}

	var affiliate models.Affiliate
	if err := r.db.Where("referral_code = ?", code).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAffiliateNotFound
		}
		return nil, ErrDatabaseOperation
	}

	if err := r.cache.CacheAffiliate(context.Background(), &affiliate); err != nil {
		log.Printf("failed to cache affiliate %d: %v", affiliate.ID, err)
	}

	return &affiliate, nil
}

func (r *affiliateRepository) Update(affiliate *models.Affiliate) error {
	if err := r.db.Save(affiliate).Error; err != nil {
		return ErrDatabaseOperation
	}

	if err := r.cache.InvalidateAffiliate(context.Background(), affiliate.ID, affiliate.ReferralCode); err != nil {
		log.Printf("failed to invalidate affiliate cache: %v", err)
	}

	return nil
}

func (r *affiliateRepository) UpdateStatus(id uint, status string) error {
	affiliate, err := r.GetByID(id)
	if err != nil {
		return err
	}

	result := r.db.Model(&models.Affiliate{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrAffiliateNotFound
	}

	if err := r.cache.InvalidateAffiliate(context.Background(), id, affiliate.ReferralCode); err != nil {
		log.Printf("failed to invalidate affiliate cache: %v", err)
	}

	return nil
}

func (r *affiliateRepository) List(filter AffiliateFilter, offset, limit int) ([]*models.Affiliate, int64, error) {
	var affiliates []*models.Affiliate
	var total int64

	query := r.db.Model(&models.Affiliate{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR company_name ILIKE ?",
			like, like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&affiliates).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return affiliates, total, nil
}

func (r *affiliateRepository) ReferralCodeExists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Affiliate{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
		return false, ErrDatabaseOperation
	}
	return count > 0, nil
}
