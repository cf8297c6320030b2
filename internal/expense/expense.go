package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"spendscan/internal/interpret"
)

// Transaction is one logged expense, created either from a scanned receipt
// or by manual entry
type Transaction struct {
	ID            string           `json:"id"`
	Merchant      string           `json:"merchant"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	Date          time.Time        `json:"date"`
	Category      string           `json:"category"`
	ReceiptNumber string           `json:"receipt_number,omitempty"`
	Items         []interpret.Item `json:"items,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Manual        bool             `json:"manual"`
	OCRConfidence float64          `json:"ocr_confidence,omitempty"`
	Filename      string           `json:"filename,omitempty"` // stored receipt image, if any
	ContentType   string           `json:"content_type,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Category is a spending category, created lazily the first time a
// transaction is filed under it
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryTotal is the per-category slice of a monthly summary
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// Summary aggregates one calendar month of spending
type Summary struct {
	Year       int             `json:"year"`
	Month      time.Month      `json:"month"`
	Total      decimal.Decimal `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}
