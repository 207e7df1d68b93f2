package account

import (
	"regexp"
	"strings"
)

var reAddress = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// Normalize lowercases and trims an address so lookups are
// case-insensitive (the wire format is 0x + 40 hex chars).
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ValidAddress reports whether s is a normalized 0x-prefixed address.
func ValidAddress(s string) bool {
	return reAddress.MatchString(s)
}
