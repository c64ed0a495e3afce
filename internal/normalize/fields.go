package normalize

import "strings"

// USN trims and upper-cases a student identifier. Identifiers are compared
// and stored in this form.
func USN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Result trims and upper-cases a result token ("p" -> "P").
func Result(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
