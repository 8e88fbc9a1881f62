package entity

import (
	"time"
)

// User is the aggregate root for the account/affiliate domain.
// PasswordHash is a bcrypt hash and is empty for OAuth-only accounts.
// AffiliateCode is assigned at creation and never changes.
type User struct {
	ID            string
	Email         string
	Username      string // optional login identifier, unique when set
	PasswordHash  string
	Name          string
	AvatarURL     string
	GoogleID      string
	AffiliateCode string
	ReferredBy    string // affiliate code of the referrer, empty if none
	ReferralIDs   []string
	Commission    float64
	EmailVerified bool
	VerifyToken   string
	ResetToken    string
	ResetExpires  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Referral is the public slice of a referred user shown on the
// referrer's dashboard. The referrer does not own these accounts.
type Referral struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	AffiliateCode string `json:"affiliateCode"`
}
