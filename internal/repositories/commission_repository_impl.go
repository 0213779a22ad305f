package repositories

import (
	"errors"
	"time"

	"refshare/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type commissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a new instance of CommissionRepository
func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) Create(commission *models.Commission) error {
	if err := r.db.Create(commission).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCommission
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *commissionRepository) GetByID(id uint) (*models.Commission, error) {
	var commission models.Commission
	if err := r.db.First(&commission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommissionNotFound
		}
		return nil, err
	}
	return &commission, nil
}

func (r *commissionRepository) GetByPaymentID(paymentID string) (*models.Commission, error) {
	var commission models.Commission
	if err := r.db.Where("payment_id = ?", paymentID).First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommissionNotFound
		}
		return nil, err
	}
	return &commission, nil
}

func (r *commissionRepository) Approve(id uint, approverID uint, notes string, at time.Time) error {
	return r.transition(id, models.CommissionStatusApproved, at, map[string]interface{}{
		"status":         models.CommissionStatusApproved,
		"approved_by":    approverID,
		"approval_notes": notes,
		"approved_at":    at,
	})
}

func (r *commissionRepository) Reject(id uint, rejectorID uint, reason string, at time.Time) error {
	return r.transition(id, models.CommissionStatusRejected, at, map[string]interface{}{
		"status":           models.CommissionStatusRejected,
		"approved_by":      rejectorID,
		"rejection_reason": reason,
	})
}

// transition applies a guarded pending -> target update to the commission and
// mirrors the new status onto the parent referral in the same transaction.
func (r *commissionRepository) transition(id uint, target string, at time.Time, updates map[string]interface{}) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Commission{}).
			Where("id = ? AND status = ?", id, models.CommissionStatusPending).
			Updates(updates)
		if result.Error != nil {
			return ErrDatabaseOperation
		}
		if result.RowsAffected == 0 {
			var commission models.Commission
			if err := tx.First(&commission, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCommissionNotFound
				}
				return err
			}
			return ErrCommissionNotPending
		}

		var commission models.Commission
		if err := tx.First(&commission, id).Error; err != nil {
			return err
		}

		referralUpdates := map[string]interface{}{"commission_status": target}
		if target == models.CommissionStatusApproved {
			referralUpdates["approved_at"] = at
		}
		if err := tx.Model(&models.Referral{}).
			Where("id = ? AND commission_status = ?", commission.ReferralID, models.CommissionStatusPending).
			Updates(referralUpdates).Error; err != nil {
			return ErrDatabaseOperation
		}
		return nil
	})
}

func (r *commissionRepository) ApplyAdjustment(adjustment *models.CommissionAdjustment, newAmount decimal.Decimal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(adjustment).Error; err != nil {
			return ErrDatabaseOperation
		}

		var commission models.Commission
		if err := tx.First(&commission, adjustment.CommissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommissionNotFound
			}
			return err
		}

		if err := tx.Model(&models.Commission{}).
			Where("id = ?", adjustment.CommissionID).
			Update("commission_amount", newAmount).Error; err != nil {
			return ErrDatabaseOperation
		}

		// Keep the referral's stored commission in sync with the net amount.
		if err := tx.Model(&models.Referral{}).
			Where("id = ?", commission.ReferralID).
			Update("commission_amount", newAmount).Error; err != nil {
			return ErrDatabaseOperation
		}
		return nil
	})
}

func (r *commissionRepository) ApprovedForActiveAffiliates(periodStart, periodEnd time.Time) ([]*models.Commission, error) {
	var commissions []*models.Commission
	err := r.db.
		Joins("JOIN affiliates ON affiliates.id = commissions.affiliate_id").
		Where("commissions.status = ?", models.CommissionStatusApproved).
		Where("affiliates.status = ?", models.AffiliateStatusActive).
		Where("commissions.approved_at >= ? AND commissions.approved_at <= ?", periodStart, periodEnd).
		Order("commissions.affiliate_id, commissions.approved_at").
		Find(&commissions).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return commissions, nil
}

func (r *commissionRepository) ApprovedForAffiliate(affiliateID uint, periodStart, periodEnd time.Time) ([]*models.Commission, error) {
	var commissions []*models.Commission
	err := r.db.
		Where("affiliate_id = ?", affiliateID).
		Where("status = ?", models.CommissionStatusApproved).
		Where("approved_at >= ? AND approved_at <= ?", periodStart, periodEnd).
		Order("approved_at").
		Find(&commissions).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return commissions, nil
}

func (r *commissionRepository) PaymentVolumeSince(affiliateID uint, since time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.Model(&models.Commission{}).
		Select("COALESCE(SUM(payment_amount), 0) AS total").
		Where("affiliate_id = ? AND created_at >= ?", affiliateID, since).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, ErrDatabaseOperation
	}
	return row.Total, nil
}

func (r *commissionRepository) List(filter CommissionFilter, offset, limit int) ([]*models.Commission, int64, error) {
	var commissions []*models.Commission
	var total int64

	query := r.db.Model(&models.Commission{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&commissions).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return commissions, total, nil
}

func (r *commissionRepository) ListAdjustments(commissionID uint) ([]*models.CommissionAdjustment, error) {
	var adjustments []*models.CommissionAdjustment
	if err := r.db.Where("commission_id = ?", commissionID).
		Order("created_at").Find(&adjustments).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return adjustments, nil
}
