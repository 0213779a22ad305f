package repositories

import (
	"errors"
	"time"

	"refshare/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type payoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository creates a new instance of PayoutRepository
func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) GetByAffiliateAndPeriod(affiliateID uint, periodStart, periodEnd time.Time) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.Where("affiliate_id = ? AND period_start = ? AND period_end = ?",
		affiliateID, periodStart, periodEnd).First(&payout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) CreateWithLineItems(payout *models.Payout, commissions []*models.Commission) error {
	now := time.Now().UTC()
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payout).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicatePayout
			}
			return ErrDatabaseOperation
		}

		for _, commission := range commissions {
			item := models.PayoutLineItem{
				PayoutID:         payout.ID,
				ReferralID:       commission.ReferralID,
				CommissionID:     commission.ID,
				CommissionAmount: commission.CommissionAmount,
			}
			if err := tx.Create(&item).Error; err != nil {
				return ErrDatabaseOperation
			}

			result := tx.Model(&models.Commission{}).
				Where("id = ? AND status = ?", commission.ID, models.CommissionStatusApproved).
				Updates(map[string]interface{}{
					"status":  models.CommissionStatusPaid,
					"paid_at": now,
				})
			if result.Error != nil {
				return ErrDatabaseOperation
			}
			if result.RowsAffected == 0 {
				// Someone moved the commission out from under the batch;
				// abort the whole payout rather than pay a partial set.
				return ErrCommissionNotPending
			}

			if err := tx.Model(&models.Referral{}).
				Where("id = ?", commission.ReferralID).
				Updates(map[string]interface{}{
					"commission_status": models.CommissionStatusPaid,
					"paid_at":           now,
				}).Error; err != nil {
				return ErrDatabaseOperation
			}
		}
		return nil
	})
}

func (r *payoutRepository) GetByID(id uint) (*models.Payout, error) {
	var payout models.Payout
	if err := r.db.Preload("LineItems").First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) UpdateStatus(id uint, status, reference, failureReason string) error {
	updates := map[string]interface{}{"status": status}
	if reference != "" {
		updates["reference"] = reference
	}
	if status == models.PayoutStatusCompleted {
		updates["payout_date"] = time.Now().UTC()
	}
	if status == models.PayoutStatusFailed {
		updates["failure_reason"] = failureReason
	}

	result := r.db.Model(&models.Payout{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrPayoutNotFound
	}
	return nil
}

func (r *payoutRepository) List(filter PayoutFilter, offset, limit int) ([]*models.Payout, int64, error) {
	var payouts []*models.Payout
	var total int64

	query := r.db.Model(&models.Payout{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("period_start >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("period_end <= ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payouts).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return payouts, total, nil
}

func (r *payoutRepository) Stats(affiliateID uint) (*PayoutStats, error) {
	stats := &PayoutStats{}

	base := func() *gorm.DB {
		q := r.db.Model(&models.Payout{})
		if affiliateID != 0 {
			q = q.Where("affiliate_id = ?", affiliateID)
		}
		return q
	}

	type row struct {
		Count  int64
		Amount decimal.NullDecimal
	}

	var all row
	if err := base().Select("COUNT(*) AS count, SUM(total_amount) AS amount").Scan(&all).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	stats.TotalPayouts = all.Count
	stats.TotalAmount = all.Amount.Decimal

	var pending row
	if err := base().Where("status = ?", models.PayoutStatusPending).
		Select("COUNT(*) AS count, SUM(total_amount) AS amount").Scan(&pending).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	stats.PendingPayouts = pending.Count
	stats.PendingAmount = pending.Amount.Decimal

	var completed row
	if err := base().Where("status = ?", models.PayoutStatusCompleted).
		Select("COUNT(*) AS count, SUM(total_amount) AS amount").Scan(&completed).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	stats.CompletedPayouts = completed.Count
	stats.CompletedAmount = completed.Amount.Decimal

	return stats, nil
}
