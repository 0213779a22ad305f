package models

import "time"

// Fraud flag statuses
const (
	FraudFlagStatusActive   = "active"
	FraudFlagStatusResolved = "resolved"
)

// Fraud flag types
const (
	FraudFlagSuspiciousActivity = "suspicious_activity"
)

// FraudFlag marks an affiliate for manual review. Flags gate auto-approval
// until resolved.
type FraudFlag struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AffiliateID uint      `gorm:"not null;index" json:"affiliate_id"`
	FlagType    string    `gorm:"not null" json:"flag_type"`
	Reason      string    `gorm:"not null" json:"reason"`
	FlaggedBy   uint      `json:"flagged_by"`
	Status      string    `gorm:"default:'active';index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}
