package interpret

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// itemSkipPatterns disqualify a line from item extraction. Beyond the
// identifier filters shared with amount extraction, totals and transfer
// metadata (source/destination/purpose) would otherwise parse as items.
var itemSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+?\d+\s*[a-zA-Z]`),             // digits running into letters
	regexp.MustCompile(`^\+?\d+(?:\s+\d+)+$`),           // phone numbers: spaced digit groups
	regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`), // dates
	regexp.MustCompile(`(?i)ref\s*no`),
	regexp.MustCompile(`(?i)reference\s*id`),
	regexp.MustCompile(`(?i)amount`),
	regexp.MustCompile(`(?i)total`),
	regexp.MustCompile(`^\d+$`), // account numbers
	regexp.MustCompile(`(?i)bank transfer`),
	regexp.MustCompile(`(?i)source`),
	regexp.MustCompile(`(?i)destination`),
	regexp.MustCompile(`(?i)purpose`),
	regexp.MustCompile(`(?i)transaction`),
}

// itemPattern matches "<name> <price>" with the shared numeric grammar
var itemPattern = regexp.MustCompile(`(.+?)\s+\$?` + numberPattern)

// extractItems splits the raw text into physical lines and collects every
// line that looks like a priced item, preserving source order. No
// deduplication is attempted.
func extractItems(text string) []Item {
	items := []Item{}
	for _, line := range strings.Split(text, "\n") {
		if matchesAny(itemSkipPatterns, line) {
			continue
		}

		m := itemPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		price, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", ""))
		if err != nil {
			continue
		}

		items = append(items, Item{
			Name:  strings.TrimSpace(m[1]),
			Price: price,
		})
	}
	return items
}
