package utils

import (
	"regexp"
	"strings"
)

// Accepts both the legacy Brazilian format (ABC1234) and the Mercosul
// format (ABC1D23) after normalization.
var platePattern = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z0-9][0-9]{2}$`)

// NormalizePlate uppercases a plate and strips separators and whitespace.
// Returns "" for input that cannot form a plate at all.
func NormalizePlate(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r != '-' && r != ' ' && r != '.' {
			return ""
		}
	}
	return b.String()
}

// ValidPlate reports whether a normalized plate matches the legacy or
// Mercosul layout.
func ValidPlate(plate string) bool {
	return platePattern.MatchString(plate)
}
