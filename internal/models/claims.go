package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Affiliate program permissions
	PermissionAffiliateRead  = "affiliate:read"
	PermissionAffiliateWrite = "affiliate:write"
	PermissionReferralRead   = "referral:read"
	PermissionReferralWrite  = "referral:write"

	// Commission permissions
	PermissionCommissionRead    = "commission:read"
	PermissionCommissionApprove = "commission:approve"

	// Payout permissions
	PermissionPayoutRead  = "payout:read"
	PermissionPayoutWrite = "payout:write"

	// Fraud review permissions
	PermissionFraudRead  = "fraud:read"
	PermissionFraudWrite = "fraud:write"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionAffiliateRead,
			PermissionAffiliateWrite,
			PermissionReferralRead,
			PermissionReferralWrite,
			PermissionCommissionRead,
			PermissionCommissionApprove,
			PermissionPayoutRead,
			PermissionPayoutWrite,
			PermissionFraudRead,
			PermissionFraudWrite,
			PermissionReadAdmin,
			PermissionWriteAdmin,
		}
	case "operator":
		return []string{
			PermissionAffiliateRead,
			PermissionReferralRead,
			PermissionCommissionRead,
			PermissionCommissionApprove,
			PermissionPayoutRead,
			PermissionFraudRead,
		}
	default:
		return []string{}
	}
}
