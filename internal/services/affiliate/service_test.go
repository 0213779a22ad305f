package affiliate

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

type MockAffiliateRepo struct {
	mock.Mock
}

type MockReferralRepo struct {
	mock.Mock
}

type MockActivityRepo struct {
	mock.Mock
}

func TestService_Create(t *testing.T) {
	t.Run("enrolls with generated referral code", func(t *testing.T) {
		affiliates := new(MockAffiliateRepo)

		affiliates.On("ReferralCodeExists", mock.Anything).Return(false, nil)
		affiliates.On("Create", mock.MatchedBy(func(a *models.Affiliate) bool {
			return a.Email == "jane@example.com" &&
				a.Status == models.AffiliateStatusPending &&
				len(a.ReferralCode) == 8 &&
				a.CommissionRate.Equal(decimal.RequireFromString("0.20")) &&
				a.PayoutMethod == models.PayoutMethodBankTransfer
		})).Return(nil)

		created, err := NewService(affiliates, new(MockReferralRepo), nil).Create(context.Background(), CreateInput{
			Email:     "  Jane@Example.com ",
			FirstName: "Jane",
			LastName:  "Doe",
		})

		assert.NoError(t, err)
		assert.Equal(t, "jane@example.com", created.Email)
		affiliates.AssertExpectations(t)
	})

	t.Run("retries on code collision", func(t *testing.T) {
		affiliates := new(MockAffiliateRepo)

		affiliates.On("ReferralCodeExists", mock.Anything).Return(true, nil).Once()
		affiliates.On("ReferralCodeExists", mock.Anything).Return(false, nil).Once()
		affiliates.On("Create", mock.Anything).Return(nil)

		_, err := NewService(affiliates, new(MockReferralRepo), nil).Create(context.Background(), CreateInput{
			Email:     "jane@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
		})

		assert.NoError(t, err)
		affiliates.AssertNumberOfCalls(t, "ReferralCodeExists", 2)
	})

	t.Run("validation", func(t *testing.T) {
		s := NewService(new(MockAffiliateRepo), new(MockReferralRepo), nil)

		_, err := s.Create(context.Background(), CreateInput{FirstName: "Jane", LastName: "Doe"})
		assert.ErrorIs(t, err, ErrMissingEmail)

		_, err = s.Create(context.Background(), CreateInput{Email: "a@b.com"})
		assert.ErrorIs(t, err, ErrMissingName)

		_, err = s.Create(context.Background(), CreateInput{
			Email:          "a@b.com",
			FirstName:      "Jane",
			LastName:       "Doe",
			CommissionRate: decimal.RequireFromString("1.5"),
		})
		assert.ErrorIs(t, err, ErrInvalidRate)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("applies partial changes", func(t *testing.T) {
		affiliates := new(MockAffiliateRepo)

		stored := &models.Affiliate{ID: 1, FirstName: "Jane", LastName: "Doe", Phone: "111"}
		affiliates.On("GetByID", uint(1)).Return(stored, nil)
		affiliates.On("Update", mock.MatchedBy(func(a *models.Affiliate) bool {
			return a.Phone == "222" && a.FirstName == "Jane"
		})).Return(nil)

		phone := "222"
		updated, err := NewService(affiliates, new(MockReferralRepo), nil).
			Update(context.Background(), 1, UpdateInput{Phone: &phone})

		assert.NoError(t, err)
		assert.Equal(t, "222", updated.Phone)
		affiliates.AssertExpectations(t)
	})

	t.Run("rejects out-of-range rate", func(t *testing.T) {
		affiliates := new(MockAffiliateRepo)
		affiliates.On("GetByID", uint(1)).Return(&models.Affiliate{ID: 1}, nil)

		rate := decimal.RequireFromString("-0.1")
		_, err := NewService(affiliates, new(MockReferralRepo), nil).
			Update(context.Background(), 1, UpdateInput{CommissionRate: &rate})

		assert.ErrorIs(t, err, ErrInvalidRate)
		affiliates.AssertNotCalled(t, "Update", mock.Anything)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	t.Run("valid transition writes an audit entry", func(t *testing.T) {
		affiliates := new(MockAffiliateRepo)
		activity := new(MockActivityRepo)

		affiliates.On("GetByID", uint(1)).Return(&models.Affiliate{ID: 1}, nil)
		affiliates.On("UpdateStatus", uint(1), models.AffiliateStatusActive).Return(nil)
		activity.On("Log", mock.MatchedBy(func(e *models.ActivityLog) bool {
			return e.ActivityType == models.ActivityStatusChanged
		})).Return(nil)

		err := NewService(affiliates, new(MockReferralRepo), activity).
			UpdateStatus(context.Background(), 1, models.AffiliateStatusActive, 9)

		assert.NoError(t, err)
		affiliates.AssertExpectations(t)
		activity.AssertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		affiliates := new(MockAffiliateRepo)

		err := NewService(affiliates, new(MockReferralRepo), nil).
			UpdateStatus(context.Background(), 1, "deleted", 9)

		assert.ErrorIs(t, err, ErrInvalidStatus)
		affiliates.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	})
}

func TestService_Stats(t *testing.T) {
	affiliates := new(MockAffiliateRepo)
	referrals := new(MockReferralRepo)

	affiliates.On("GetByID", uint(1)).Return(&models.Affiliate{ID: 1}, nil)
	referrals.On("ConversionCounts", uint(1)).Return(int64(10), int64(4), nil)
	referrals.On("CommissionSums", uint(1)).Return(map[string]decimal.Decimal{
		models.CommissionStatusPending:  decimal.RequireFromString("15"),
		models.CommissionStatusApproved: decimal.RequireFromString("25"),
		models.CommissionStatusPaid:     decimal.RequireFromString("60"),
	}, nil)

	stats, err := NewService(affiliates, referrals, nil).Stats(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalReferrals)
	assert.Equal(t, int64(4), stats.ConvertedReferrals)
	assert.InDelta(t, 40.0, stats.ConversionRate, 0.001)
	assert.True(t, stats.PendingCommission.Equal(decimal.RequireFromString("15")))
	assert.True(t, stats.TotalCommission.Equal(decimal.RequireFromString("100")))
}

func TestService_LifetimeValue(t *testing.T) {
	affiliates := new(MockAffiliateRepo)
	referrals := new(MockReferralRepo)

	jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC)

	affiliates.On("GetByID", uint(1)).Return(&models.Affiliate{ID: 1}, nil)
	referrals.On("ConversionCounts", uint(1)).Return(int64(3), int64(2), nil)
	referrals.On("CommissionSums", uint(1)).Return(map[string]decimal.Decimal{
		models.CommissionStatusApproved: decimal.RequireFromString("30"),
	}, nil)
	referrals.On("RecentByAffiliate", uint(1), mock.Anything).Return([]*models.Referral{
		{AffiliateID: 1, ReferredAt: feb, ConvertedAt: &feb, CommissionAmount: decimal.RequireFromString("10")},
		{AffiliateID: 1, ReferredAt: jan, ConvertedAt: &jan, CommissionAmount: decimal.RequireFromString("20")},
		{AffiliateID: 1, ReferredAt: jan},
	}, nil)

	report, err := NewService(affiliates, referrals, nil).LifetimeValue(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), report.TotalReferrals)
	assert.True(t, report.TotalCommissionEarned.Equal(decimal.RequireFromString("30")))
	assert.True(t, report.AvgCommission.Equal(decimal.RequireFromString("15")))
	assert.Len(t, report.MonthlyPerformance, 2)
	assert.Equal(t, "2026-01", report.MonthlyPerformance[0].Month)
	assert.Equal(t, 2, report.MonthlyPerformance[0].Referrals)
	assert.Equal(t, 1, report.MonthlyPerformance[0].Conversions)
	assert.Equal(t, "2026-02", report.MonthlyPerformance[1].Month)
}

// Affiliate repository mock

func (m *MockAffiliateRepo) Create(affiliate *models.Affiliate) error {
	args := m.Called(affiliate)
	return args.Error(0)
}

func (m *MockAffiliateRepo) GetByID(id uint) (*models.Affiliate, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepo) GetByEmail(email string) (*models.Affiliate, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepo) GetByReferralCode(code string) (*models.Affiliate, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Affiliate), args.Error(1)
}

func (m *MockAffiliateRepo) Update(affiliate *models.Affiliate) error {
	args := m.Called(affiliate)
	return args.Error(0)
}

func (m *MockAffiliateRepo) UpdateStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockAffiliateRepo) List(filter repositories.AffiliateFilter, offset, limit int) ([]*models.Affiliate, int64, error) {
	args := m.Called(filter, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Affiliate), args.Get(1).(int64), args.Error(2)
}

func (m *MockAffiliateRepo) ReferralCodeExists(code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
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
