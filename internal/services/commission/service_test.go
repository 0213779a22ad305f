package commission

import (
	"context"
	"errors"
	"testing"
	"time"

	"refshare/internal/models"
	"refshare/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReferralRepo struct {
	mock.Mock
}

type MockCommissionRepo struct {
	mock.Mock
}

type MockActivityRepo struct {
	mock.Mock
}

type MockPolicy struct {
	mock.Mock
}

func newTestService(referrals *MockReferralRepo, commissions *MockCommissionRepo, activity *MockActivityRepo, policy ApprovalPolicy) Service {
	if policy == nil {
		policy = ManualReviewPolicy{}
	}
	return NewService(referrals, commissions, activity, NewCalculator(nil, decimal.Zero), policy)
}

func TestService_ProcessPayment(t *testing.T) {
	event := PaymentEvent{
		PaymentID:        "pay_123",
		Amount:           99.99,
		Currency:         "usd",
		UserID:           42,
		SubscriptionType: SubscriptionStandard,
	}

	t.Run("creates pending commission for referred user", func(t *testing.T) {
		referrals := new(MockReferralRepo)
		commissions := new(MockCommissionRepo)
		activity := new(MockActivityRepo)

		referral := &models.Referral{ID: 7, AffiliateID: 3, ReferredUserID: 42}
		referrals.On("GetByReferredUserID", uint(42)).Return(referral, nil)
		referrals.On("MarkConverted", uint(7), mock.Anything, mock.Anything, mock.Anything).Return(nil)
		commissions.On("Create", mock.MatchedBy(func(c *models.Commission) bool {
			return c.ReferralID == 7 &&
				c.AffiliateID == 3 &&
				c.PaymentID == "pay_123" &&
				c.Status == models.CommissionStatusPending &&
				c.CommissionAmount.Equal(decimal.RequireFromString("20"))
		})).Return(nil)
		activity.On("Log", mock.Anything).Return(nil)

		result, err := newTestService(referrals, commissions, activity, nil).ProcessPayment(context.Background(), event)

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, result.CommissionCreated)
		assert.False(t, result.AutoApproved)
		assert.True(t, result.CommissionAmount.Equal(decimal.RequireFromString("20")))

		referrals.AssertExpectations(t)
		commissions.AssertExpectations(t)
		activity.AssertExpectations(t)
	})

	t.Run("payment without referral succeeds without commission", func(t *testing.T) {
		referrals := new(MockReferralRepo)
		commissions := new(MockCommissionRepo)

		referrals.On("GetByReferredUserID", uint(42)).Return(nil, repositories.ErrReferralNotFound)

		result, err := newTestService(referrals, commissions, nil, nil).ProcessPayment(context.Background(), event)

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.False(t, result.CommissionCreated)
		assert.True(t, result.CommissionAmount.IsZero())
		commissions.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("already converted referral is rejected", func(t *testing.T) {
		referrals := new(MockReferralRepo)
		commissions := new(MockCommissionRepo)

		converted := time.Now().UTC()
		referrals.On("GetByReferredUserID", uint(42)).Return(&models.Referral{
			ID:          7,
			AffiliateID: 3,
			ConvertedAt: &converted,
		}, nil)

		result, err := newTestService(referrals, commissions, nil, nil).ProcessPayment(context.Background(), event)

		assert.ErrorIs(t, err, ErrAlreadyConverted)
		assert.Nil(t, result)
		commissions.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("racing conversion loses at the guarded update", func(t *testing.T) {
		referrals := new(MockReferralRepo)
		commissions := new(MockCommissionRepo)

		referrals.On("GetByReferredUserID", uint(42)).Return(&models.Referral{ID: 7, AffiliateID: 3}, nil)
		referrals.On("MarkConverted", uint(7), mock.Anything, mock.Anything, mock.Anything).
			Return(repositories.ErrReferralAlreadyConverted)

		result, err := newTestService(referrals, commissions, nil, nil).ProcessPayment(context.Background(), event)

		assert.ErrorIs(t, err, ErrAlreadyConverted)
		assert.Nil(t, result)
		commissions.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("auto-approves when policy allows", func(t *testing.T) {
		referrals := new(MockReferralRepo)
		commissions := new(MockCommissionRepo)
		activity := new(MockActivityRepo)
		policy := new(MockPolicy)

		referrals.On("GetByReferredUserID", uint(42)).Return(&models.Referral{ID: 7, AffiliateID: 3}, nil)
		referrals.On("MarkConverted", uint(7), mock.Anything, mock.Anything, mock.Anything).Return(nil)
		commissions.On("Create", mock.Anything).Return(nil)
		policy.On("ShouldAutoApprove", mock.Anything, uint(3)).Return(true, nil)
		commissions.On("Approve", mock.Anything, uint(0), "auto-approved", mock.Anything).Return(nil)
		activity.On("Log", mock.Anything).Return(nil)

		result, err := newTestService(referrals, commissions, activity, policy).ProcessPayment(context.Background(), event)

		assert.NoError(t, err)
		assert.True(t, result.AutoApproved)
		commissions.AssertExpectations(t)
		policy.AssertExpectations(t)
	})

	t.Run("policy failure leaves the commission pending", func(t *testing.T) {
		referrals := new(MockReferralRepo)
		commissions := new(MockCommissionRepo)
		activity := new(MockActivityRepo)
		policy := new(MockPolicy)

		referrals.On("GetByReferredUserID", uint(42)).Return(&models.Referral{ID: 7, AffiliateID: 3}, nil)
		referrals.On("MarkConverted", uint(7), mock.Anything, mock.Anything, mock.Anything).Return(nil)
		commissions.On("Create", mock.Anything).Return(nil)
		policy.On("ShouldAutoApprove", mock.Anything, uint(3)).Return(false, errors.New("cache down"))
		activity.On("Log", mock.Anything).Return(nil)

		result, err := newTestService(referrals, commissions, activity, policy).ProcessPayment(context.Background(), event)

		assert.NoError(t, err)
		assert.True(t, result.CommissionCreated)
		assert.False(t, result.AutoApproved)
		commissions.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing payment id is rejected", func(t *testing.T) {
		referrals := new(MockReferralRepo)
		commissions := new(MockCommissionRepo)

		_, err := newTestService(referrals, commissions, nil, nil).ProcessPayment(context.Background(), PaymentEvent{UserID: 42})

		assert.ErrorIs(t, err, ErrMissingPaymentID)
		referrals.AssertNotCalled(t, "GetByReferredUserID", mock.Anything)
	})
}

func TestService_ProcessRefund(t *testing.T) {
	t.Run("partial refund reduces the commission proportionally", func(t *testing.T) {
		commissions := new(MockCommissionRepo)
		activity := new(MockActivityRepo)

		stored := &models.Commission{
			ID:               11,
			AffiliateID:      3,
			PaymentID:        "pay_123",
			PaymentAmount:    decimal.RequireFromString("100"),
			CommissionAmount: decimal.RequireFromString("20"),
		}
		commissions.On("GetByPaymentID", "pay_123").Return(stored, nil)
		commissions.On("ApplyAdjustment", mock.MatchedBy(func(a *models.CommissionAdjustment) bool {
			return a.CommissionID == 11 &&
				a.AdjustmentType == models.AdjustmentTypeRefund &&
				a.Amount.Equal(decimal.RequireFromString("-10"))
		}), mock.MatchedBy(func(amount decimal.Decimal) bool {
			return amount.Equal(decimal.RequireFromString("10"))
		})).Return(nil)
		activity.On("Log", mock.Anything).Return(nil)

		result, err := newTestService(new(MockReferralRepo), commissions, activity, nil).
			ProcessRefund(context.Background(), RefundEvent{PaymentID: "pay_123", Amount: 50})

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, result.CommissionAdjusted)
		assert.True(t, result.AdjustmentAmount.Equal(decimal.RequireFromString("10")))
		assert.True(t, result.NewCommissionAmount.Equal(decimal.RequireFromString("10")))
		commissions.AssertExpectations(t)
	})

	t.Run("refund without commission is a no-op", func(t *testing.T) {
		commissions := new(MockCommissionRepo)
		commissions.On("GetByPaymentID", "pay_999").Return(nil, repositories.ErrCommissionNotFound)

		result, err := newTestService(new(MockReferralRepo), commissions, nil, nil).
			ProcessRefund(context.Background(), RefundEvent{PaymentID: "pay_999", Amount: 50})

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.False(t, result.CommissionAdjusted)
		commissions.AssertNotCalled(t, "ApplyAdjustment", mock.Anything, mock.Anything)
	})

	t.Run("over-refund floors the commission at zero", func(t *testing.T) {
		commissions := new(MockCommissionRepo)
		activity := new(MockActivityRepo)

		// The commission was already reduced by an earlier adjustment, so the
		// proportional share of a full refund exceeds what is left.
		stored := &models.Commission{
			ID:               11,
			AffiliateID:      3,
			PaymentID:        "pay_123",
			PaymentAmount:    decimal.RequireFromString("100"),
			CommissionAmount: decimal.RequireFromString("5"),
		}
		commissions.On("GetByPaymentID", "pay_123").Return(stored, nil)
		commissions.On("ApplyAdjustment", mock.Anything, mock.MatchedBy(func(amount decimal.Decimal) bool {
			return amount.IsZero()
		})).Return(nil)
		activity.On("Log", mock.Anything).Return(nil)

		result, err := newTestService(new(MockReferralRepo), commissions, activity, nil).
			ProcessRefund(context.Background(), RefundEvent{PaymentID: "pay_123", Amount: 100})

		assert.NoError(t, err)
		assert.True(t, result.NewCommissionAmount.IsZero())
	})

	t.Run("zero stored payment amount is rejected", func(t *testing.T) {
		commissions := new(MockCommissionRepo)
		commissions.On("GetByPaymentID", "pay_123").Return(&models.Commission{
			ID:            11,
			PaymentID:     "pay_123",
			PaymentAmount: decimal.Zero,
		}, nil)

		_, err := newTestService(new(MockReferralRepo), commissions, nil, nil).
			ProcessRefund(context.Background(), RefundEvent{PaymentID: "pay_123", Amount: 50})

		assert.ErrorIs(t, err, ErrZeroPaymentAmount)
	})

	t.Run("non-positive refund amount is rejected", func(t *testing.T) {
		commissions := new(MockCommissionRepo)
		commissions.On("GetByPaymentID", "pay_123").Return(&models.Commission{
			ID:               11,
			PaymentID:        "pay_123",
			PaymentAmount:    decimal.RequireFromString("100"),
			CommissionAmount: decimal.RequireFromString("20"),
		}, nil)

		_, err := newTestService(new(MockReferralRepo), commissions, nil, nil).
			ProcessRefund(context.Background(), RefundEvent{PaymentID: "pay_123", Amount: -10})

		assert.ErrorIs(t, err, ErrInvalidRefundAmount)
	})
}

// Referral repository mock

func (m *MockReferralRepo) Create(referral *models.Referral) error {
	args := m.Called(referral)
	return args.Error(0)
}

func (m *MockReferralRepo) GetByID(id uint) (*models.Referral, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Referral), args.Error(1)
}

func (m *MockReferralRepo) GetByReferredUserID(userID uint) (*models.Referral, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Referral), args.Error(1)
}

func (m *MockReferralRepo) MarkConverted(id uint, conversionValue, commissionAmount decimal.Decimal, at time.Time) error {
	args := m.Called(id, conversionValue, commissionAmount, at)
	return args.Error(0)
}

func (m *MockReferralRepo) List(filter repositories.ReferralFilter, offset, limit int) ([]*models.Referral, int64, error) {
	args := m.Called(filter, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Referral), args.Get(1).(int64), args.Error(2)
}

func (m *MockReferralRepo) RecentByAffiliate(affiliateID uint, since time.Time) ([]*models.Referral, error) {
	args := m.Called(affiliateID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Referral), args.Error(1)
}

func (m *MockReferralRepo) ConversionCounts(affiliateID uint) (int64, int64, error) {
	args := m.Called(affiliateID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockReferralRepo) CommissionSums(affiliateID uint) (map[string]decimal.Decimal, error) {
	args := m.Called(affiliateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
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

// Approval policy mock

func (m *MockPolicy) ShouldAutoApprove(ctx context.Context, affiliateID uint) (bool, error) {
	args := m.Called(ctx, affiliateID)
	return args.Bool(0), args.Error(1)
}
