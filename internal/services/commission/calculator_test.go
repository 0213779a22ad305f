package commission

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculator_Calculate(t *testing.T) {
	calc := NewCalculator(nil, decimal.Zero)

	tests := []struct {
		name    string
		payment string
		rate    string
		want    string
	}{
		{name: "whole payment", payment: "100", rate: "0.20", want: "20"},
		{name: "rounds half up", payment: "99.99", rate: "0.20", want: "20"},
		{name: "rounds down below half", payment: "99.94", rate: "0.20", want: "19.99"},
		{name: "zero payment", payment: "0", rate: "0.20", want: "0"},
		{name: "negative payment stays proportional", payment: "-50", rate: "0.20", want: "-10"},
		{name: "premium rate", payment: "100", rate: "0.25", want: "25"},
		{name: "sub-cent payment", payment: "0.01", rate: "0.20", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := decimal.RequireFromString(tt.payment)
			rate := decimal.RequireFromString(tt.rate)

			got := calc.Calculate(payment, rate)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestCalculator_RateFor(t *testing.T) {
	calc := NewCalculator(nil, decimal.Zero)

	assert.True(t, calc.RateFor(SubscriptionStandard).Equal(decimal.RequireFromString("0.20")))
	assert.True(t, calc.RateFor(SubscriptionPremium).Equal(decimal.RequireFromString("0.25")))
	assert.True(t, calc.RateFor(SubscriptionEnterprise).Equal(decimal.RequireFromString("0.30")))

	t.Run("unknown type falls back to default", func(t *testing.T) {
		assert.True(t, calc.RateFor("lifetime").Equal(DefaultRate))
		assert.True(t, calc.RateFor("").Equal(DefaultRate))
	})

	t.Run("custom rate table", func(t *testing.T) {
		custom := NewCalculator(map[string]decimal.Decimal{
			"standard": decimal.RequireFromString("0.10"),
		}, decimal.RequireFromString("0.05"))
		assert.True(t, custom.RateFor("standard").Equal(decimal.RequireFromString("0.10")))
		assert.True(t, custom.RateFor("premium").Equal(decimal.RequireFromString("0.05")))
	})
}

func TestCalculator_CalculateFromFloat(t *testing.T) {
	calc := NewCalculator(nil, decimal.Zero)
	rate := decimal.RequireFromString("0.20")

	t.Run("finite amount", func(t *testing.T) {
		got := calc.CalculateFromFloat(99.99, rate)
		assert.True(t, got.Equal(decimal.RequireFromString("20")))
	})

	t.Run("non-finite amounts fail closed to zero", func(t *testing.T) {
		assert.True(t, calc.CalculateFromFloat(math.NaN(), rate).IsZero())
		assert.True(t, calc.CalculateFromFloat(math.Inf(1), rate).IsZero())
		assert.True(t, calc.CalculateFromFloat(math.Inf(-1), rate).IsZero())
	})
}

func TestCalculator_RefundShare(t *testing.T) {
	calc := NewCalculator(nil, decimal.Zero)

	tests := []struct {
		name       string
		refund     string
		payment    string
		commission string
		want       string
		wantErr    error
	}{
		{
			name:       "half refund halves the commission",
			refund:     "50",
			payment:    "100",
			commission: "20",
			want:       "10",
		},
		{
			name:       "full refund recovers the full commission",
			refund:     "100",
			payment:    "100",
			commission: "20",
			want:       "20",
		},
		{
			name:       "uneven proportion rounds half up",
			refund:     "33.33",
			payment:    "100",
			commission: "20",
			want:       "6.67",
		},
		{
			name:       "zero original payment is rejected",
			refund:     "10",
			payment:    "0",
			commission: "0",
			wantErr:    ErrZeroPaymentAmount,
		},
		{
			name:       "negative original payment is rejected",
			refund:     "10",
			payment:    "-100",
			commission: "-20",
			wantErr:    ErrZeroPaymentAmount,
		},
		{
			name:       "zero refund is rejected",
			refund:     "0",
			payment:    "100",
			commission: "20",
			wantErr:    ErrInvalidRefundAmount,
		},
		{
			name:       "negative refund is rejected",
			refund:     "-10",
			payment:    "100",
			commission: "20",
			wantErr:    ErrInvalidRefundAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.RefundShare(
				decimal.RequireFromString(tt.refund),
				decimal.RequireFromString(tt.payment),
				decimal.RequireFromString(tt.commission),
			)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}
