package domain

import (
	"crypto/subtle" // Constant-time comparison
	"time"          // Expiry instants
)

// OtpTTL is how long an issued code stays valid
const OtpTTL = 10 * time.Minute

// OtpPurpose records why a code was issued
type OtpPurpose string

const (
	OtpPurposeVerification  OtpPurpose = "verification"   // Prove phone ownership
	OtpPurposePasswordReset OtpPurpose = "password_reset" // Authorise a PIN change
)

// PendingOtp is the single live one-time code of a user. Code and expiry always
// travel together; issuing a new code for any purpose replaces the old one.
type PendingOtp struct {
	Code      string     // Six ASCII digits
	ExpiresAt time.Time  // Valid while now <= ExpiresAt
	Purpose   OtpPurpose // Informational
}

// Expired reports whether the code is no longer usable at now
func (p PendingOtp) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Matches reports whether code equals the pending code exactly
func (p PendingOtp) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(p.Code), []byte(code)) == 1
}
