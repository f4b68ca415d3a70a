package parsing

import "github.com/shopspring/decimal"

// Source records how an item was recovered from the receipt
type Source string

const (
	// SourcePattern items matched one of the line-shape patterns
	SourcePattern Source = "pattern"
	// SourceSalvage items were salvaged from a line carrying a price
	SourceSalvage Source = "salvage"
	// SourcePlaceholder items are generic stand-ins, not read from the receipt
	SourcePlaceholder Source = "placeholder"
	// SourceScanner items came back structured from a scanner
	SourceScanner Source = "scanner"
)

// Item is a single line item extracted from receipt text
type Item struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Source     Source          `json:"source"`
}
