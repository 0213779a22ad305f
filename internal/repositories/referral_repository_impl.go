package repositories

import (
	"context"
	"errors"
	"log"
	"time"

	"refshare/internal/models"
	"refshare/internal/repositories/cache"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type referralRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewReferralRepository creates a new instance of ReferralRepository
func NewReferralRepository(db *gorm.DB, cache *cache.CacheService) ReferralRepository {
	return &referralRepository{
		db:    db,
		cache: cache,
	}
}

func (r *referralRepository) Create(referral *models.Referral) error {
	if referral.ReferredAt.IsZero() {
		referral.ReferredAt = time.Now().UTC()
	}
	if err := r.db.Create(referral).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReferral
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *referralRepository) GetByID(id uint) (*models.Referral, error) {
	var referral models.Referral
	if err := r.db.First(&referral, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &referral, nil
}

func (r *referralRepository) GetByReferredUserID(userID uint) (*models.Referral, error) {
	if referral, err := r.cache.GetReferralByUser(context.Background(), userID); err == nil {
		return referral, nil
	}

	var referral models.Referral
	if err := r.db.Where("referred_user_id = ?", userID).First(&referral).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}

	if err := r.cache.CacheReferral(context.Background(), &referral); err != nil {
		log.Printf("failed to cache referral %d: %v", referral.ID, err)
	}

	return &referral, nil
}

// MarkConverted guards against double conversion: the UPDATE only matches a
// referral that has not converted yet, so two racing payment webhooks cannot
// both claim the conversion.
func (r *referralRepository) MarkConverted(id uint, conversionValue, commissionAmount decimal.Decimal, at time.Time) error {
	result := r.db.Model(&models.Referral{}).
		Where("id = ? AND converted_at IS NULL AND commission_status = ?", id, models.CommissionStatusPending).
		Updates(map[string]interface{}{
			"conversion_value":  conversionValue,
			"commission_amount": commissionAmount,
			"converted_at":      at,
		})
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		referral, err := r.GetByID(id)
		if err != nil {
			return err
		}
		r.invalidate(referral)
		return ErrReferralAlreadyConverted
	}

	if referral, err := r.GetByID(id); err == nil {
		r.invalidate(referral)
	}
	return nil
}

func (r *referralRepository) List(filter ReferralFilter, offset, limit int) ([]*models.Referral, int64, error) {
	var referrals []*models.Referral
	var total int64

	query := r.db.Model(&models.Referral{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if filter.Status != "" {
		query = query.Where("commission_status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("referred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("referred_at <= ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := query.Order("referred_at DESC").Offset(offset).Limit(limit).Find(&referrals).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return referrals, total, nil
}

func (r *referralRepository) RecentByAffiliate(affiliateID uint, since time.Time) ([]*models.Referral, error) {
	var referrals []*models.Referral
	if err := r.db.Where("affiliate_id = ? AND referred_at >= ?", affiliateID, since).
		Order("referred_at DESC").Find(&referrals).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return referrals, nil
}

func (r *referralRepository) ConversionCounts(affiliateID uint) (int64, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.Model(&models.Referral{})
		if affiliateID != 0 {
			q = q.Where("affiliate_id = ?", affiliateID)
		}
		return q
	}

	var total, converted int64
	if err := scoped().Count(&total).Error; err != nil {
		return 0, 0, ErrDatabaseOperation
	}
	if err := scoped().Where("converted_at IS NOT NULL").Count(&converted).Error; err != nil {
		return 0, 0, ErrDatabaseOperation
	}
	return total, converted, nil
}

func (r *referralRepository) CommissionSums(affiliateID uint) (map[string]decimal.Decimal, error) {
	var rows []struct {
		CommissionStatus string
		Total            decimal.NullDecimal
	}
	query := r.db.Model(&models.Referral{}).
		Select("commission_status, COALESCE(SUM(commission_amount), 0) AS total")
	if affiliateID != 0 {
		query = query.Where("affiliate_id = ?", affiliateID)
	}
	err := query.Group("commission_status").Scan(&rows).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}

	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.CommissionStatus] = row.Total.Decimal
	}
	return sums, nil
}

func (r *referralRepository) invalidate(referral *models.Referral) {
	if err := r.cache.InvalidateReferral(context.Background(), referral.ReferredUserID); err != nil {
		log.Printf("failed to invalidate referral cache: %v", err)
	}
}
