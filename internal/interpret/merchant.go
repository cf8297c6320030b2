package interpret

import "strings"

// UnknownMerchant is returned when no line qualifies as a merchant name.
const UnknownMerchant = "Unknown Merchant"

// merchantScanLines is how many leading lines are considered for the
// merchant name. Receipts print the merchant in the header.
const merchantScanLines = 5

// extractMerchant returns the first of the leading lines whose trimmed
// length is plausible for a business name
func extractMerchant(lines []string) string {
	for i, line := range lines {
		if i == merchantScanLines {
			break
		}
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 3 && len(trimmed) < 50 {
			return trimmed
		}
	}
	return UnknownMerchant
}
