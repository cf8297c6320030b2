package interpret

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numberPattern is the shared numeric grammar: optional thousands separators
// and an optional two-decimal fraction. Integer amounts are accepted.
const numberPattern = `(\d{1,3}(?:,\d{3})*(?:\.\d{2})?|\d+(?:\.\d{2})?)`

// currencySymbols covers the symbols seen on supported receipts. The '#' is
// not a currency sign but a common OCR misread of '₱'.
const currencySymbols = `[$£₱€#]`

// amountSkipPatterns disqualify a line from amount consideration entirely.
// Identifiers (phone numbers, dates, reference numbers, bare account numbers)
// contain digit runs that would otherwise be misread as totals.
var amountSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+?\d+\s*[a-zA-Z]`),             // digits running into letters
	regexp.MustCompile(`^\+?\d+(?:\s+\d+)+$`),           // phone numbers: spaced digit groups
	regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`), // dates
	regexp.MustCompile(`(?i)ref\s*no`),
	regexp.MustCompile(`(?i)reference\s*id`),
	regexp.MustCompile(`^\d+$`), // account numbers
}

// negativeAmountPattern matches amounts like "- $205.00". Transfer receipts
// show the paid amount as a negative delta, so this outranks every other rule.
var negativeAmountPattern = regexp.MustCompile(`-\s*` + currencySymbols + `?\s*` + numberPattern)

// currencyAmountPattern matches an amount with an optional currency symbol
var currencyAmountPattern = regexp.MustCompile(currencySymbols + `?\s*` + numberPattern)

// labeledAmountPatterns are the fallback labeled-total rules, tried in order
var labeledAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)total[:\s]*` + currencySymbols + `?` + numberPattern),
	regexp.MustCompile(`(?i)amount[:\s]*` + currencySymbols + `?` + numberPattern),
	regexp.MustCompile(`(?i)sum[:\s]*` + currencySymbols + `?` + numberPattern),
	regexp.MustCompile(`(?i)total amount[:\s]*` + currencySymbols + `?` + numberPattern),
	regexp.MustCompile(`(?i)amount sent[:\s]*` + currencySymbols + `?` + numberPattern),
	regexp.MustCompile(`(?i)total amount sent[:\s]*` + currencySymbols + `?` + numberPattern),
}

// extractAmount scans the line sequence for the transaction total. The first
// line that survives the skip filter and matches a rule decides the result;
// within a line the negative pattern outranks the currency pattern, which
// outranks the labeled-total patterns.
func extractAmount(lines []string) decimal.NullDecimal {
	for _, line := range lines {
		if matchesAny(amountSkipPatterns, line) {
			continue
		}

		if m := negativeAmountPattern.FindStringSubmatch(line); m != nil {
			return parseAmount(m[1])
		}

		if m := currencyAmountPattern.FindStringSubmatch(line); m != nil {
			return parseAmount(m[1])
		}

		for _, pattern := range labeledAmountPatterns {
			if m := pattern.FindStringSubmatch(line); m != nil {
				return parseAmount(m[1])
			}
		}
	}

	return decimal.NullDecimal{}
}

// parseAmount converts a matched numeric string to a decimal, stripping
// thousands separators first
func parseAmount(raw string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
