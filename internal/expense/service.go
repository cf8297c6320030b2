package expense

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spendscan/internal/interpret"
	"spendscan/internal/ocr"
)

var (
	// ErrNoAmount means interpretation could not recover a monetary total.
	// The transaction is never created with a guessed or zero amount.
	ErrNoAmount = errors.New("could not detect an amount on the receipt")

	// ErrDuplicateReceipt means a transaction with the same receipt number
	// already exists.
	ErrDuplicateReceipt = errors.New("a transaction for this receipt already exists")
)

// IDGenerator generates unique IDs for transactions and categories
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now().UTC()
}

// Service handles expense operations
type Service struct {
	db          DB
	provider    ocr.Provider
	interpreter *interpret.Interpreter
	storage     Storage
	currency    string
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, provider ocr.Provider, interpreter *interpret.Interpreter, storage Storage, currency string) *Service {
	return NewServiceWithDeps(db, provider, interpreter, storage, currency, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, provider ocr.Provider, interpreter *interpret.Interpreter, storage Storage, currency string, idGen IDGenerator, timeSrc TimeSource) *Service {
	if currency == "" {
		currency = "USD"
	}
	return &Service{
		db:          db,
		provider:    provider,
		interpreter: interpreter,
		storage:     storage,
		currency:    currency,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and
// truncating length, so phone-generated names store cleanly
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// ProcessReceipt stores a receipt image, extracts its text, interprets it
// and files a transaction. Fails with ErrNoAmount when no total could be
// read and with ErrDuplicateReceipt when the receipt number was seen before.
func (s *Service) ProcessReceipt(filename string, data []byte, contentType string) (*Transaction, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	result, err := s.provider.ExtractText(data, contentType)
	if err != nil {
		slog.Error("Failed to extract text from receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// Clean up the saved file since extraction failed
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	parsed := s.interpreter.Parse(result.Text, result.Lines)

	if !parsed.Amount.Valid {
		slog.Warn("No amount detected on receipt", "filename", filename, "merchant", parsed.Merchant)
		s.storage.Delete(savedPath)
		return nil, ErrNoAmount
	}

	if parsed.ReceiptNumber != "" {
		existing, err := s.db.FindTransactionByReceiptNumber(parsed.ReceiptNumber)
		if err != nil {
			s.storage.Delete(savedPath)
			return nil, fmt.Errorf("checking for duplicate receipt: %w", err)
		}
		if existing != nil {
			s.storage.Delete(savedPath)
			return nil, fmt.Errorf("%w: receipt number %s", ErrDuplicateReceipt, parsed.ReceiptNumber)
		}
	}

	if err := s.ensureCategory(parsed.Category, now); err != nil {
		s.storage.Delete(savedPath)
		return nil, err
	}

	transaction := &Transaction{
		ID:            id,
		Merchant:      parsed.Merchant,
		Amount:        parsed.Amount.Decimal,
		Currency:      s.currency,
		Date:          parsed.Date,
		Category:      parsed.Category,
		ReceiptNumber: parsed.ReceiptNumber,
		Items:         parsed.Items,
		OCRConfidence: result.Confidence,
		Filename:      savedPath,
		ContentType:   contentType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.SaveTransaction(transaction); err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving transaction to database: %w", err)
	}

	return transaction, nil
}

// AddTransactionInput is a manual expense entry
type AddTransactionInput struct {
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Date     time.Time       `json:"date"`
	Category string          `json:"category"`
	Notes    string          `json:"notes"`
}

// AddTransaction files a manually entered expense. The category is inferred
// from the merchant when not given.
func (s *Service) AddTransaction(input AddTransactionInput) (*Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	now := s.timeSource.Now()

	merchant := strings.TrimSpace(input.Merchant)
	if merchant == "" {
		merchant = interpret.UnknownMerchant
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = s.interpreter.Categorize(merchant, nil)
	}

	date := input.Date
	if date.IsZero() {
		date = now
	}

	currency := input.Currency
	if currency == "" {
		currency = s.currency
	}

	if err := s.ensureCategory(category, now); err != nil {
		return nil, err
	}

	transaction := &Transaction{
		ID:        s.idGenerator.Generate(),
		Merchant:  merchant,
		Amount:    input.Amount,
		Currency:  currency,
		Date:      date,
		Category:  category,
		Notes:     input.Notes,
		Manual:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.SaveTransaction(transaction); err != nil {
		return nil, fmt.Errorf("saving transaction to database: %w", err)
	}

	return transaction, nil
}

// ensureCategory lazily creates the category record the first time a
// transaction is filed under it
func (s *Service) ensureCategory(name string, now time.Time) error {
	existing, err := s.db.GetCategoryByName(name)
	if err != nil {
		return fmt.Errorf("looking up category: %w", err)
	}
	if existing != nil {
		return nil
	}

	category := &Category{
		ID:        s.idGenerator.Generate(),
		Name:      name,
		CreatedAt: now,
	}
	if err := s.db.SaveCategory(category); err != nil {
		return fmt.Errorf("saving category: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID
func (s *Service) GetTransaction(id string) (*Transaction, error) {
	transaction, err := s.db.GetTransaction(id)
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}
	return transaction, nil
}

// ListTransactions returns all transactions
func (s *Service) ListTransactions() ([]*Transaction, error) {
	transactions, err := s.db.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return transactions, nil
}

// DeleteTransaction removes a transaction and its receipt image
func (s *Service) DeleteTransaction(id string) error {
	transaction, err := s.db.GetTransaction(id)
	if err != nil {
		return fmt.Errorf("getting transaction for deletion: %w", err)
	}

	if transaction.Filename != "" {
		if err := s.storage.Delete(transaction.Filename); err != nil {
			// Log error but continue with database deletion
			slog.Warn("Failed to delete receipt image", "filename", transaction.Filename, "error", err)
		}
	}

	if err := s.db.DeleteTransaction(id); err != nil {
		return fmt.Errorf("deleting transaction from database: %w", err)
	}
	return nil
}

// GetReceiptImage retrieves the stored receipt image for a transaction
func (s *Service) GetReceiptImage(id string) ([]byte, string, error) {
	transaction, err := s.db.GetTransaction(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting transaction: %w", err)
	}

	if transaction.Filename == "" {
		return nil, "", fmt.Errorf("transaction has no receipt image: %s", id)
	}

	data, err := s.storage.Get(transaction.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt image: %w", err)
	}

	return data, transaction.ContentType, nil
}

// ListCategories returns all categories
func (s *Service) ListCategories() ([]*Category, error) {
	categories, err := s.db.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// MonthlySummary aggregates spending for one calendar month per category,
// largest first
func (s *Service) MonthlySummary(year int, month time.Month) (*Summary, error) {
	transactions, err := s.db.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	totals := make(map[string]*CategoryTotal)
	grandTotal := decimal.Zero
	for _, transaction := range transactions {
		if transaction.Date.Year() != year || transaction.Date.Month() != month {
			continue
		}
		entry, ok := totals[transaction.Category]
		if !ok {
			entry = &CategoryTotal{Category: transaction.Category, Total: decimal.Zero}
			totals[transaction.Category] = entry
		}
		entry.Total = entry.Total.Add(transaction.Amount)
		entry.Count++
		grandTotal = grandTotal.Add(transaction.Amount)
	}

	categories := make([]CategoryTotal, 0, len(totals))
	for _, entry := range totals {
		categories = append(categories, *entry)
	}
	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].Total.Equal(categories[j].Total) {
			return categories[i].Total.GreaterThan(categories[j].Total)
		}
		return categories[i].Category < categories[j].Category
	})

	return &Summary{
		Year:       year,
		Month:      month,
		Total:      grandTotal,
		Categories: categories,
	}, nil
}
