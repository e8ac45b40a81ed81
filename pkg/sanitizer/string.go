// Package sanitizer normalizes free-text catalog input before validation and
// storage. All functions are idempotent and handle bad input by returning
// empty strings or slices rather than errors.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses internal whitespace runs
// into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeTag lowercases amenity/rule style labels after whitespace cleanup,
// so "Free  WiFi" and "free wifi" dedupe to the same entry.
func NormalizeTag(tag string) string {
	return strings.ToLower(TrimAndNormalize(tag))
}

func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
