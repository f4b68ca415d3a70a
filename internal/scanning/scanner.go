// Package scanning reads receipt images with a vision model.
package scanning

import (
	"context"

	"github.com/shopspring/decimal"
)

// ItemData is a single line item as reported by the model
type ItemData struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// ReceiptData contains extracted information from a receipt
type ReceiptData struct {
	Items       []ItemData      `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Tax         decimal.Decimal `json:"tax"`
	Currency    string          `json:"currency"`
	Merchant    string          `json:"merchant"`
	Date        string          `json:"date"` // ISO 8601 when recognizable, otherwise as printed

	// RawText holds the model reply when it was not JSON, so the text parser
	// can still recover items from it.
	RawText string `json:"-"`
}

// Scanner defines the interface for receipt scanning operations
type Scanner interface {
	// ScanReceipt analyzes a receipt image/PDF and extracts its line items
	ScanReceipt(ctx context.Context, imageData []byte, contentType string) (*ReceiptData, error)
	// ReadText transcribes all text on the receipt
	ReadText(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}
