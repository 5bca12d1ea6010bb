package utils

import "strings"

// NormalizePhone converts a local number to international form for the SMS
// gateway. A leading '+' is dropped, a leading '0' is replaced by countryCode and
// numbers already starting with countryCode pass through.
func NormalizePhone(phone, countryCode string) string {
	p := strings.TrimSpace(phone)
	p = strings.TrimPrefix(p, "+")
	switch {
	case strings.HasPrefix(p, countryCode):
		return p
	case strings.HasPrefix(p, "0"):
		return countryCode + p[1:]
	default:
		return p
	}
}
