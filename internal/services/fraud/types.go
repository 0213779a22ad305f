package fraud

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity is a point-in-time snapshot of an affiliate's referral behaviour,
// ready for scoring.
type Activity struct {
	AffiliateID      uint            `json:"affiliate_id"`
	MaxHourlySignups int             `json:"max_hourly_signups"`
	MaxSameIPSignups int             `json:"max_same_ip_signups"`
	ConversionRate   float64         `json:"conversion_rate"`
	PaymentVelocity  decimal.Decimal `json:"payment_velocity"`
}

// Analysis is the scored outcome of one activity snapshot.
type Analysis struct {
	AffiliateID    uint      `json:"affiliate_id"`
	RiskScore      int       `json:"risk_score"`
	RiskLevel      string    `json:"risk_level"`
	Indicators     []string  `json:"fraud_indicators"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
	RequiresReview bool      `json:"requires_review"`
}
