package commission

import "github.com/shopspring/decimal"

// Subscription types carried on payment events.
const (
	SubscriptionStandard   = "standard"
	SubscriptionPremium    = "premium"
	SubscriptionEnterprise = "enterprise"
)

// DefaultRate is the commission fraction applied when a payment event carries
// no recognized subscription type.
var DefaultRate = decimal.RequireFromString("0.20")

// DefaultRates maps subscription types to their commission fractions.
func DefaultRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		SubscriptionStandard:   decimal.RequireFromString("0.20"),
		SubscriptionPremium:    decimal.RequireFromString("0.25"),
		SubscriptionEnterprise: decimal.RequireFromString("0.30"),
	}
}
