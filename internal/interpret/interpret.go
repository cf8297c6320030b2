package interpret

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a single line item recovered from a receipt.
type Item struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ParsedReceipt is the best-effort interpretation of one receipt's OCR output.
// Amount is invalid when no monetary total could be recovered; callers must
// treat that as "could not read the receipt" and never default it to zero.
// ReceiptNumber is empty when no reference identifier was found.
type ParsedReceipt struct {
	Amount        decimal.NullDecimal `json:"amount"`
	Date          time.Time           `json:"date"`
	Merchant      string              `json:"merchant"`
	Items         []Item              `json:"items"`
	ReceiptNumber string              `json:"receipt_number,omitempty"`
	Category      string              `json:"category"`
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now().UTC()
}

// Interpreter turns raw OCR text plus its line segmentation into a
// ParsedReceipt. It holds only immutable rule tables and is safe for
// concurrent use.
type Interpreter struct {
	rules      CategoryRules
	timeSource TimeSource
}

// New creates an Interpreter with the given category rules
func New(rules CategoryRules) *Interpreter {
	return &Interpreter{
		rules:      rules,
		timeSource: &defaultTimeSource{},
	}
}

// NewWithTimeSource creates an Interpreter with a custom time source for testing
func NewWithTimeSource(rules CategoryRules, timeSource TimeSource) *Interpreter {
	return &Interpreter{
		rules:      rules,
		timeSource: timeSource,
	}
}

// Parse interprets OCR output. It never fails: each field independently
// degrades to its documented default when nothing in the input qualifies.
func (in *Interpreter) Parse(text string, lines []string) ParsedReceipt {
	result := ParsedReceipt{
		Amount:        extractAmount(lines),
		Date:          extractDate(text, lines, in.timeSource),
		Merchant:      extractMerchant(lines),
		Items:         extractItems(text),
		ReceiptNumber: extractReceiptNumber(text, lines),
	}

	// Category depends on the merchant and items extracted above
	result.Category = in.rules.Categorize(result.Merchant, result.Items)

	return result
}

// Categorize exposes category inference for callers that already have a
// merchant name, such as manual transaction entry
func (in *Interpreter) Categorize(merchant string, items []Item) string {
	return in.rules.Categorize(merchant, items)
}

// matchesAny reports whether the line matches any pattern in the list
func matchesAny(patterns []*regexp.Regexp, line string) bool {
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}
