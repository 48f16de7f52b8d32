package valueobject

import (
	"regexp"
	"strings"
)

var hexCurrency = regexp.MustCompile(`^[A-Fa-f0-9]{40}$`)

// NormalizeCurrency upper-cases a currency code for comparison. Codes are
// either three-character ISO-style codes or 40-hex non-standard codes; both
// compare case-insensitively.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsHexCurrency reports whether code is a 160-bit hex currency code.
func IsHexCurrency(code string) bool {
	return hexCurrency.MatchString(strings.TrimSpace(code))
}

// SameCurrency compares two currency codes case-insensitively.
func SameCurrency(a, b string) bool {
	return NormalizeCurrency(a) == NormalizeCurrency(b)
}
