package interpret

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// dateRule pairs a matching pattern with the layouts its captures may parse
// as. All layouts are tried in order; dates parse in UTC and two-digit years
// follow Go's standard pivot (00-68 become 20xx, 69-99 become 19xx).
type dateRule struct {
	pattern *regexp.Regexp
	layouts []string
}

var dateRules = []dateRule{
	{
		pattern: regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		layouts: []string{"1/2/2006", "1/2/06", "1-2-2006", "1-2-06"},
	},
	{
		pattern: regexp.MustCompile(`(\d{4}[/-]\d{1,2}[/-]\d{1,2})`),
		layouts: []string{"2006/1/2", "2006-1-2"},
	},
	{
		pattern: regexp.MustCompile(`(?i)([a-z]{3}\s+\d{1,2},?\s+\d{4})`),
		layouts: []string{"Jan 2, 2006", "Jan 2 2006"},
	},
	{
		pattern: regexp.MustCompile(`(?i)([a-z]{3}\s+\d{1,2},?\s+\d{4}\s+at\s+\d{1,2}:\d{2}\s+[AP]M)`),
		layouts: []string{"Jan 2, 2006 at 3:04 PM", "Jan 2 2006 at 3:04 PM"},
	},
}

// extractDate scans each line against the date rules in order, then falls
// back to the full text, then to the current time. A matched string that is
// not a real calendar date (e.g. "13/45/2024") is skipped and scanning
// continues.
func extractDate(text string, lines []string, timeSource TimeSource) time.Time {
	for _, line := range lines {
		for _, rule := range dateRules {
			if m := rule.pattern.FindStringSubmatch(line); m != nil {
				if t, ok := parseDateString(m[1], rule.layouts); ok {
					return t
				}
			}
		}
	}

	// Fallback to the full text
	for _, rule := range dateRules {
		if m := rule.pattern.FindStringSubmatch(text); m != nil {
			if t, ok := parseDateString(m[1], rule.layouts); ok {
				return t
			}
		}
	}

	return timeSource.Now()
}

// parseDateString tries each layout against the matched string
func parseDateString(raw string, layouts []string) (time.Time, bool) {
	raw = normalizeMonthCase(raw)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeMonthCase fixes the case of a leading month abbreviation so OCR
// output like "JAN 15, 2024" parses with Go's "Jan" layout token
func normalizeMonthCase(raw string) string {
	if raw == "" || !unicode.IsLetter(rune(raw[0])) {
		return raw
	}
	fields := strings.SplitN(raw, " ", 2)
	month := strings.ToLower(fields[0])
	month = strings.ToUpper(month[:1]) + month[1:]
	if len(fields) == 1 {
		return month
	}
	return month + " " + fields[1]
}
