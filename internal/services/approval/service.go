package approval

import (
	"context"
	"fmt"
	"log"
	"time"

	"refshare/internal/models"
	"refshare/internal/repositories"
)

// Service drives the manual review workflow over pending commissions.
type Service interface {
	// Approve transitions a pending commission to approved
	Approve(ctx context.Context, commissionID, approverID uint, notes string) error

	// Reject transitions a pending commission to rejected with a reason
	Reject(ctx context.Context, commissionID, rejectorID uint, reason string) error

	// BulkApprove applies Approve to each id independently and aggregates the
	// outcome; one bad id never aborts the rest
	BulkApprove(ctx context.Context, commissionIDs []uint, approverID uint) (*BulkResult, error)

	// ListPending retrieves commissions awaiting review, newest first
	ListPending(ctx context.Context, offset, limit int) ([]*models.Commission, int64, error)
}

type service struct {
	commissions repositories.CommissionRepository
	activity    repositories.ActivityLogRepository
}

func NewService(commissions repositories.CommissionRepository, activity repositories.ActivityLogRepository) Service {
	if commissions == nil {
		panic("commission repository is required")
	}
	return &service{
		commissions: commissions,
		activity:    activity,
	}
}

func (s *service) Approve(ctx context.Context, commissionID, approverID uint, notes string) error {
	commission, err := s.commissions.GetByID(commissionID)
	if err != nil {
		return err
	}

	if err := s.commissions.Approve(commissionID, approverID, notes, time.Now().UTC()); err != nil {
		return err
	}

	s.logActivity(commission.AffiliateID, models.ActivityCommissionApproved,
		fmt.Sprintf("Commission %d approved", commissionID),
		models.JSON{
			"commission_id": commissionID,
			"approved_by":   approverID,
		})
	return nil
}

func (s *service) Reject(ctx context.Context, commissionID, rejectorID uint, reason string) error {
	if reason == "" {
		return ErrMissingReason
	}

	commission, err := s.commissions.GetByID(commissionID)
	if err != nil {
		return err
	}

	if err := s.commissions.Reject(commissionID, rejectorID, reason, time.Now().UTC()); err != nil {
		return err
	}

	s.logActivity(commission.AffiliateID, models.ActivityCommissionRejected,
		fmt.Sprintf("Commission %d rejected: %s", commissionID, reason),
		models.JSON{
			"commission_id": commissionID,
			"rejected_by":   rejectorID,
			"reason":        reason,
		})
	return nil
}

func (s *service) BulkApprove(ctx context.Context, commissionIDs []uint, approverID uint) (*BulkResult, error) {
	if len(commissionIDs) == 0 {
		return nil, ErrNoCommissionIDs
	}

	result := &BulkResult{}
	for _, id := range commissionIDs {
		if err := s.Approve(ctx, id, approverID, "bulk approval"); err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, BulkFailure{
				CommissionID: id,
				Error:        err.Error(),
			})
			continue
		}
		result.ApprovedCount++
	}
	return result, nil
}

func (s *service) ListPending(ctx context.Context, offset, limit int) ([]*models.Commission, int64, error) {
	return s.commissions.List(repositories.CommissionFilter{
		Status: models.CommissionStatusPending,
	}, offset, limit)
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
