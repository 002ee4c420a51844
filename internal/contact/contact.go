// Package contact normalizes sender identities across transcript formats.
//
// Export files carry display names, but live-captured messages can surface
// raw JIDs and LID-style numeric identifiers. All of that lossy cleanup is
// concentrated here so aggregation code never sees format artifacts;
// supporting a new transcript format means swapping this package only.
package contact

import "strings"

// maxPhoneDigits is how many trailing digits a LID-style identifier keeps
// when collapsed to a phone-number guess.
const maxPhoneDigits = 13

// Normalize strips known network-suffix artifacts from a sender name and
// collapses long all-digit identifiers to a trailing-digit phone guess.
// Anything that doesn't look like a network identifier passes through
// unchanged.
func Normalize(name string) string {
	name = strings.TrimSuffix(name, "@lid")
	name = strings.TrimSuffix(name, "@s.whatsapp.net")

	if len(name) > 15 && allDigits(name) {
		guess := name[len(name)-maxPhoneDigits:]
		if len(guess) >= 10 {
			return guess
		}
	}

	return name
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
