// Package phone canonicalizes customer phone numbers so the same customer
// can be matched across orders placed with differently formatted input.
package phone

import "strings"

// CountryCode is the Mozambican calling code stripped from numbers.
const CountryCode = "258"

// Normalize drops every non-digit character (spaces, hyphens, parentheses,
// periods, the leading plus) and then the country calling code. The code is
// stripped until the number no longer starts with it, which keeps
// Normalize(Normalize(x)) == Normalize(x). Local numbers start with 8, so
// no real subscriber number is affected.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	normalized := digitsOnly(raw)
	for strings.HasPrefix(normalized, CountryCode) {
		normalized = normalized[len(CountryCode):]
	}
	return normalized
}

// Equal compares two raw numbers by their normalized form.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// International renders a normalized number with the country code, the
// format expected by messaging gateways.
func International(raw string) string {
	normalized := Normalize(raw)
	if normalized == "" {
		return ""
	}
	return CountryCode + normalized
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
