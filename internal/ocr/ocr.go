package ocr

// Result is the raw output of a text-extraction provider. Lines is the
// provider's best-effort segmentation of Text into visual lines; Confidence
// is in [0,1] and is recorded but never used to gate interpretation.
type Result struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Lines      []string `json:"lines"`
}

// Provider defines the interface for receipt text extraction
type Provider interface {
	// ExtractText reads all visible text from a receipt image/PDF
	ExtractText(imageData []byte, contentType string) (*Result, error)
	// Close closes the provider and releases resources
	Close() error
}
