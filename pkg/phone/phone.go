// Package phone normalizes Kenyan subscriber numbers to the canonical
// 254-prefixed MSISDN form the provider expects.
package phone

import "strings"

const (
	countryCode = "254"
	trunkPrefix = "0"
	msisdnLen   = 12
)

// Normalize rewrites a free-form phone number into canonical form:
// whitespace, dashes and plus signs are stripped, a leading trunk "0"
// is replaced with the country code, and the country code is prepended
// when absent. Normalizing an already-normalized number is a no-op.
func Normalize(raw string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "+", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return ""
	}
	if strings.HasPrefix(cleaned, trunkPrefix) {
		return countryCode + cleaned[len(trunkPrefix):]
	}
	if !strings.HasPrefix(cleaned, countryCode) {
		return countryCode + cleaned
	}
	return cleaned
}

// IsValid reports whether a normalized number is a well-formed MSISDN:
// exactly 12 digits carrying the 254 country code.
func IsValid(msisdn string) bool {
	if len(msisdn) != msisdnLen || !strings.HasPrefix(msisdn, countryCode) {
		return false
	}
	for _, r := range msisdn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
