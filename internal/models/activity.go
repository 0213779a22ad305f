package models

import "time"

// Activity types recorded in the audit trail.
const (
	ActivityCommissionEarned   = "commission_earned"
	ActivityCommissionApproved = "commission_approved"
	ActivityCommissionRejected = "commission_rejected"
	ActivityCommissionAdjusted = "commission_adjusted"
	ActivityPayoutCreated      = "payout_created"
	ActivityReferralCreated    = "referral_created"
	ActivityFraudFlagged       = "fraud_flagged"
	ActivityStatusChanged      = "status_changed"
)

// ActivityLog is the append-only audit trail for affiliate events. Writes are
// best-effort: a failed log entry never unwinds the transition it describes.
type ActivityLog struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	AffiliateID  uint      `gorm:"not null;index" json:"affiliate_id"`
	ActivityType string    `gorm:"not null;index" json:"activity_type"`
	Description  string    `json:"description,omitempty"`
	Metadata     JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
