package fraud

import (
	"time"

	"github.com/shopspring/decimal"
)

// Risk levels ordered from most to least severe.
const (
	RiskHigh    = "HIGH"
	RiskMedium  = "MEDIUM"
	RiskLow     = "LOW"
	RiskMinimal = "MINIMAL"
)

// Indicator thresholds. A value strictly above the threshold trips the
// indicator.
const (
	RapidSignupThreshold    = 10
	SameIPThreshold         = 5
	ConversionRateThreshold = 90.0
)

// PaymentVelocityThreshold is the hourly payment volume above which the
// velocity indicator trips.
var PaymentVelocityThreshold = decimal.RequireFromString("100")

// Per-indicator score contributions.
const (
	ScoreRapidSignups    = 30
	ScoreSameIP          = 25
	ScoreHighConversion  = 20
	ScorePaymentVelocity = 25
)

// Risk level boundaries over the summed score.
const (
	RiskHighMin     = 70
	RiskMediumMin   = 40
	RiskLowMin      = 20
	ReviewThreshold = 40
)

// Lookback windows used when assembling an activity snapshot.
const (
	SignupLookback  = 24 * time.Hour
	PaymentLookback = time.Hour
)
