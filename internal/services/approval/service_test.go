package approval

import (
	"context"
	"testing"
	"time"

	"refshare/internal/models"
	"refshare/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCommissionRepo struct {
	mock.Mock
}

type MockActivityRepo struct {
	mock.Mock
}

func TestService_Approve(t *testing.T) {
	t.Run("approves a pending commission", func(t *testing.T) {
		commissions := new(MockCommissionRepo)
		activity := new(MockActivityRepo)

		commissions.On("GetByID", uint(5)).Return(&models.Commission{ID: 5, AffiliateID: 2}, nil)
		commissions.On("Approve", uint(5), uint(9), "looks good", mock.Anything).Return(nil)
		activity.On("Log", mock.MatchedBy(func(e *models.ActivityLog) bool {
			return e.AffiliateID == 2 && e.ActivityType == models.ActivityCommissionApproved
		})).Return(nil)

		err := NewService(commissions, activity).Approve(context.Background(), 5, 9, "looks good")

		assert.NoError(t, err)
		commissions.AssertExpectations(t)
		activity.AssertExpectations(t)
	})

	t.Run("missing commission", func(t *testing.T) {
		commissions := new(MockCommissionRepo)
		commissions.On("GetByID", uint(5)).Return(nil, repositories.ErrCommissionNotFound)

		err := NewService(commissions, nil).Approve(context.Background(), 5, 9, "")

		assert.ErrorIs(t, err, repositories.ErrCommissionNotFound)
		commissions.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-pending commission", func(t *testing.T) {
		commissions := new(MockCommissionRepo)
		commissions.On("GetByID", uint(5)).Return(&models.Commission{
			ID:     5,
			Status: models.CommissionStatusApproved,
		}, nil)
		commissions.On("Approve", uint(5), uint(9), "", mock.Anything).
			Return(repositories.ErrCommissionNotPending)

		err := NewService(commissions, nil).Approve(context.Background(), 5, 9, "")

		assert.ErrorIs(t, err, repositories.ErrCommissionNotPending)
	})
}

func TestService_Reject(t *testing.T) {
	t.Run("rejects with reason", func(t *testing.T) {
		commissions := new(MockCommissionRepo)
		activity := new(MockActivityRepo)

		commissions.On("GetByID", uint(5)).Return(&models.Commission{ID: 5, AffiliateID: 2}, nil)
		commissions.On("Reject", uint(5), uint(9), "self referral", mock.Anything).Return(nil)
		activity.On("Log", mock.MatchedBy(func(e *models.ActivityLog) bool {
			return e.ActivityType == models.ActivityCommissionRejected
		})).Return(nil)

		err := NewService(commissions, activity).Reject(context.Background(), 5, 9, "self referral")

		assert.NoError(t, err)
		commissions.AssertExpectations(t)
	})

	t.Run("empty reason is rejected", func(t *testing.T) {
		commissions := new(MockCommissionRepo)

		err := NewService(commissions, nil).Reject(context.Background(), 5, 9, "")

		assert.ErrorIs(t, err, ErrMissingReason)
		commissions.AssertNotCalled(t, "GetByID", mock.Anything)
	})
}

func TestService_BulkApprove(t *testing.T) {
	t.Run("aggregates mixed outcomes without aborting", func(t *testing.T) {
		commissions := new(MockCommissionRepo)
		activity := new(MockActivityRepo)

		commissions.On("GetByID", uint(1)).Return(&models.Commission{ID: 1, AffiliateID: 2}, nil)
		commissions.On("Approve", uint(1), uint(9), "bulk approval", mock.Anything).Return(nil)

		commissions.On("GetByID", uint(2)).Return(nil, repositories.ErrCommissionNotFound)

		commissions.On("GetByID", uint(3)).Return(&models.Commission{ID: 3, AffiliateID: 4}, nil)
		commissions.On("Approve", uint(3), uint(9), "bulk approval", mock.Anything).
			Return(repositories.ErrCommissionNotPending)

		activity.On("Log", mock.Anything).Return(nil)

		result, err := NewService(commissions, activity).BulkApprove(context.Background(), []uint{1, 2, 3}, 9)

		assert.NoError(t, err)
		assert.Equal(t, 1, result.ApprovedCount)
		assert.Equal(t, 2, result.FailedCount)
		assert.Len(t, result.Failures, 2)
		assert.Equal(t, uint(2), result.Failures[0].CommissionID)
		assert.Equal(t, uint(3), result.Failures[1].CommissionID)
	})

	t.Run("empty id list", func(t *testing.T) {
		result, err := NewService(new(MockCommissionRepo), nil).BulkApprove(context.Background(), nil, 9)

		assert.ErrorIs(t, err, ErrNoCommissionIDs)
		assert.Nil(t, result)
	})
}

func TestService_ListPending(t *testing.T) {
	commissions := new(MockCommissionRepo)
	pending := []*models.Commission{{ID: 1, Status: models.CommissionStatusPending}}
	commissions.On("List", repositories.CommissionFilter{Status: models.CommissionStatusPending}, 0, 20).
		Return(pending, int64(1), nil)

	items, total, err := NewService(commissions, nil).ListPending(context.Background(), 0, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
}

// Commission repository mock

func (m *MockCommissionRepo) Create(commission *models.Commission) error {
	args := m.Called(commission)
	return args.Error(0)
}

func (m *MockCommissionRepo) GetByID(id uint) (*models.Commission, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Commission), args.Error(1)
}

func (m *MockCommissionRepo) GetByPaymentID(paymentID string) (*models.Commission, error) {
	args := m.Called(paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Commission), args.Error(1)
}

func (m *MockCommissionRepo) Approve(id uint, approverID uint, notes string, at time.Time) error {
	args := m.Called(id, approverID, notes, at)
	return args.Error(0)
}

func (m *MockCommissionRepo) Reject(id uint, rejectorID uint, reason string, at time.Time) error {
	args := m.Called(id, rejectorID, reason, at)
	return args.Error(0)
}

func (m *MockCommissionRepo) ApplyAdjustment(adjustment *models.CommissionAdjustment, newAmount decimal.Decimal) error {
	args := m.Called(adjustment, newAmount)
	return args.Error(0)
}

func (m *MockCommissionRepo) ApprovedForActiveAffiliates(periodStart, periodEnd time.Time) ([]*models.Commission, error) {
	args := m.Called(periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Commission), args.Error(1)
}

func (m *MockCommissionRepo) ApprovedForAffiliate(affiliateID uint, periodStart, periodEnd time.Time) ([]*models.Commission, error) {
	args := m.Called(affiliateID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Commission), args.Error(1)
}

func (m *MockCommissionRepo) PaymentVolumeSince(affiliateID uint, since time.Time) (decimal.Decimal, error) {
	args := m.Called(affiliateID, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCommissionRepo) List(filter repositories.CommissionFilter, offset, limit int) ([]*models.Commission, int64, error) {
	args := m.Called(filter, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Commission), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommissionRepo) ListAdjustments(commissionID uint) ([]*models.CommissionAdjustment, error) {
	args := m.Called(commissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CommissionAdjustment), args.Error(1)
}

// Activity log mock

func (m *MockActivityRepo) Log(entry *models.ActivityLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockActivityRepo) ListByAffiliate(affiliateID uint, offset, limit int) ([]*models.ActivityLog, int64, error) {
	args := m.Called(affiliateID, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.ActivityLog), args.Get(1).(int64), args.Error(2)
}
