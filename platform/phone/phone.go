// Package phone provides phone number normalization helpers.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Normalize parses raw into E.164 format using the given default region
// (ISO 3166-1 alpha-2, e.g. "BR"). Input that cannot be parsed as a phone
// number is returned unchanged; contact fields are free text and a failed
// parse is not an error.
func Normalize(raw, defaultRegion string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}

	parsed, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return trimmed
	}

	return phonenumbers.Format(parsed, phonenumbers.E164)
}
