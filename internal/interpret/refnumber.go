package interpret

import "regexp"

// refRule pairs a reference-number pattern with whether internal whitespace
// must be stripped from the capture
type refRule struct {
	pattern    *regexp.Regexp
	stripSpace bool
}

// refLineRules are tried per line, in order, first match wins:
// provider reference IDs, then spaced "4 3 6" reference numbers, then
// reference numbers trailed by a date/time suffix, then bare ones.
var refLineRules = []refRule{
	{pattern: regexp.MustCompile(`(?i)reference\s*id\s*([a-f0-9]+)`)},
	{pattern: regexp.MustCompile(`(?i)ref\s*no\.?\s*(\d{4}\s*\d{3}\s*\d{6})`), stripSpace: true},
	{pattern: regexp.MustCompile(`(?i)ref\s*no\.?\s*(\d+)(?:\s+[A-Za-z]+\s+\d+,\s+\d{4}\s+\d{1,2}:\d{2}\s+[AP]M)?`)},
	{pattern: regexp.MustCompile(`(?i)ref\s*no\.?\s*(\d+)`)},
}

// refTextRules are the full-text fallback; whitespace is always stripped
// from the capture
var refTextRules = []refRule{
	{pattern: regexp.MustCompile(`(?i)reference\s*id\s*([a-f0-9]+)`), stripSpace: true},
	{pattern: regexp.MustCompile(`(?i)ref(?:erence)?\s*no\.?\s*([A-Z0-9]+)`), stripSpace: true},
	{pattern: regexp.MustCompile(`(?i)trace\s*id\s*(\d+)`), stripSpace: true},
	{pattern: regexp.MustCompile(`(?i)ref\s*no\.?\s*(\d+)`), stripSpace: true},
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// extractReceiptNumber recovers the provider-issued reference identifier
// used downstream for duplicate-transaction detection. Empty means none was
// found.
func extractReceiptNumber(text string, lines []string) string {
	for _, line := range lines {
		for _, rule := range refLineRules {
			if m := rule.pattern.FindStringSubmatch(line); m != nil {
				if rule.stripSpace {
					return whitespacePattern.ReplaceAllString(m[1], "")
				}
				return m[1]
			}
		}
	}

	// Fallback to the full text
	for _, rule := range refTextRules {
		if m := rule.pattern.FindStringSubmatch(text); m != nil {
			return whitespacePattern.ReplaceAllString(m[1], "")
		}
	}

	return ""
}
