package marker

import (
	"regexp"
	"strings"
)

// CalloutRegex matches the canonical "detail/sheet" callout text, e.g.
// "3/A7" or "N/A5.1". Detail is a 1-2 digit number or the literal letter N;
// sheet begins with a letter followed by letters, digits, '.' or '-' (a
// digit is not required, so "3/AS" matches).
var CalloutRegex = regexp.MustCompile(`(?i)^([0-9]{1,2}|N)\s*/\s*([A-Z][A-Z0-9.\-]*)$`)

// ParseCallout splits text into (detail, sheet) if it matches CalloutRegex.
// Detail and sheet are returned upper-cased; ok is false on no match.
func ParseCallout(text string) (detail, sheet string, ok bool) {
	m := CalloutRegex.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", false
	}
	return strings.ToUpper(m[1]), strings.ToUpper(m[2]), true
}

// NormalizeText upper-cases and strips whitespace, for duplicate comparison
// in the Aggregator (spec.md §4.E "normalized (upper case, whitespace
// removed)").
func NormalizeText(text string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(text) {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CalloutText formats the canonical "detail/sheet" text for a marker.
func CalloutText(detail, sheet string) string {
	return detail + "/" + sheet
}
