package normalize

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)

// Code upper-cases the input and strips every character outside [A-Z0-9].
// Variants like "BCS405A", "bcs405a" and "BCS405A." all reduce to the same
// comparison form. Empty or fully-noise input yields "".
func Code(s string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToUpper(strings.TrimSpace(s)), "")
}
