package repositories

import (
	"refshare/internal/models"

	"gorm.io/gorm"
)

// ActivityLogRepository appends to and reads the affiliate audit trail.
type ActivityLogRepository interface {
	// Log appends one audit entry
	Log(entry *models.ActivityLog) error

	// ListByAffiliate retrieves an affiliate's activity, newest first
	ListByAffiliate(affiliateID uint, offset, limit int) ([]*models.ActivityLog, int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new instance of ActivityLogRepository
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Log(entry *models.ActivityLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *activityLogRepository) ListByAffiliate(affiliateID uint, offset, limit int) ([]*models.ActivityLog, int64, error) {
	var entries []*models.ActivityLog
	var total int64

	query := r.db.Model(&models.ActivityLog{}).Where("affiliate_id = ?", affiliateID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return entries, total, nil
}
