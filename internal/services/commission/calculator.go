package commission

import (
	"log"
	"math"

	"github.com/shopspring/decimal"
)

// Calculator computes commission amounts. It is a pure component: no storage,
// no side effects beyond logging numeric failures.
type Calculator struct {
	rates       map[string]decimal.Decimal
	defaultRate decimal.Decimal
}

// NewCalculator creates a calculator with the given per-subscription rates.
// Nil maps fall back to the package defaults.
func NewCalculator(rates map[string]decimal.Decimal, defaultRate decimal.Decimal) *Calculator {
	if rates == nil {
		rates = DefaultRates()
	}
	if defaultRate.IsZero() {
		defaultRate = DefaultRate
	}
	return &Calculator{
		rates:       rates,
		defaultRate: defaultRate,
	}
}

// RateFor returns the commission fraction for a subscription type, falling
// back to the default rate for unknown or empty types.
func (c *Calculator) RateFor(subscriptionType string) decimal.Decimal {
	if rate, ok := c.rates[subscriptionType]; ok {
		return rate
	}
	return c.defaultRate
}

// Calculate returns paymentAmount * rate rounded to 2 decimal places, half
// away from zero. Negative payment amounts represent reversals and produce
// negative commissions.
func (c *Calculator) Calculate(paymentAmount, rate decimal.Decimal) decimal.Decimal {
	return paymentAmount.Mul(rate).Round(2)
}

// CalculateFromFloat converts a float payment amount and applies Calculate.
// NaN and infinite inputs fail closed: the failure is logged and the
// commission is 0.00 rather than a propagated error.
func (c *Calculator) CalculateFromFloat(paymentAmount float64, rate decimal.Decimal) decimal.Decimal {
	if math.IsNaN(paymentAmount) || math.IsInf(paymentAmount, 0) {
		log.Printf("commission calculation failed: non-finite payment amount %v", paymentAmount)
		return decimal.Zero
	}
	return c.Calculate(decimal.NewFromFloat(paymentAmount), rate)
}

// RefundShare returns the proportional commission reduction for a refund:
// round((refund / originalPayment) * originalCommission, 2, half-up). A zero
// or negative original payment is rejected before any division happens.
func (c *Calculator) RefundShare(refundAmount, originalPayment, originalCommission decimal.Decimal) (decimal.Decimal, error) {
	if originalPayment.Sign() <= 0 {
		return decimal.Zero, ErrZeroPaymentAmount
	}
	if refundAmount.Sign() <= 0 {
		return decimal.Zero, ErrInvalidRefundAmount
	}
	share := refundAmount.Mul(originalCommission).Div(originalPayment).Round(2)
	return share, nil
}
