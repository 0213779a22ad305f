package fraud

import (
	"fmt"
	"time"
)

// Score evaluates an activity snapshot against the indicator thresholds. It is
// pure: the same snapshot always yields the same analysis, and nothing is
// persisted.
func Score(activity Activity) Analysis {
	var indicators []string
	score := 0

	if activity.MaxHourlySignups > RapidSignupThreshold {
		indicators = append(indicators,
			fmt.Sprintf("Rapid signups: %d in one hour", activity.MaxHourlySignups))
		score += ScoreRapidSignups
	}

	if activity.MaxSameIPSignups > SameIPThreshold {
		indicators = append(indicators,
			fmt.Sprintf("Multiple signups from same IP: %d", activity.MaxSameIPSignups))
		score += ScoreSameIP
	}

	if activity.ConversionRate > ConversionRateThreshold {
		indicators = append(indicators,
			fmt.Sprintf("Unusually high conversion rate: %.1f%%", activity.ConversionRate))
		score += ScoreHighConversion
	}

	if activity.PaymentVelocity.GreaterThan(PaymentVelocityThreshold) {
		indicators = append(indicators,
			fmt.Sprintf("High payment velocity: $%s/hour", activity.PaymentVelocity.StringFixed(2)))
		score += ScorePaymentVelocity
	}

	return Analysis{
		AffiliateID:    activity.AffiliateID,
		RiskScore:      score,
		RiskLevel:      riskLevel(score),
		Indicators:     indicators,
		AnalyzedAt:     time.Now().UTC(),
		RequiresReview: score >= ReviewThreshold,
	}
}

func riskLevel(score int) string {
	switch {
	case score >= RiskHighMin:
		return RiskHigh
	case score >= RiskMediumMin:
		return RiskMedium
	case score >= RiskLowMin:
		return RiskLow
	default:
		return RiskMinimal
	}
}
