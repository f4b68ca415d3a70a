// Package receipt runs bill-splitting sessions: it keeps session state in a
// store, sends uploaded receipts through a scanner or the text parser and
// serves the whole flow over a JSON HTTP API.
package receipt

import (
	"errors"

	"github.com/zombor/receipt-splitter/internal/splitting"
)

var (
	// ErrSessionNotFound is returned for unknown session ids
	ErrSessionNotFound = errors.New("session not found")
	// ErrItemNotFound is returned for unknown item ids within a session
	ErrItemNotFound = errors.New("item not found")
	// ErrImageNotFound is returned when a session has no stored receipt image
	ErrImageNotFound = errors.New("receipt image not found")
	// ErrNoScanner is returned for image uploads when no scanner is configured
	ErrNoScanner = errors.New("no receipt scanner configured")
	// ErrNoItemsFound is returned when a receipt yields no line items
	ErrNoItemsFound = errors.New("no items found on receipt")
)

// User-facing messages stored on the session when processing fails
const (
	noItemsMessage = "Couldn't find any items in the receipt. Please try:\n" +
		"• Better lighting\n" +
		"• Keep camera steady\n" +
		"• Ensure entire receipt is in frame\n" +
		"• Take closer shot of items section"
	scanErrorFormat = "Error processing receipt: %s\n\n" +
		"Please check:\n" +
		"• Internet connection\n" +
		"• Image quality\n" +
		"• API key configuration"
)

// ScanError is returned when the scanner fails on an uploaded receipt
type ScanError struct {
	Err error
}

// Error prefixes the scanner failure
func (e *ScanError) Error() string {
	return "scanning receipt: " + e.Err.Error()
}

// Unwrap returns the scanner failure
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Results is what every participant owes for a session
type Results struct {
	SessionID string                  `json:"session_id"`
	Totals    []splitting.PersonTotal `json:"totals"`
	Summary   splitting.Summary       `json:"summary"`

	// Display strings in manat, keyed by participant name
	Owed  map[string]string `json:"owed"`
	Items []ItemLine        `json:"items"`
}

// ItemLine is a receipt item with its display strings
type ItemLine struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Quantity  string   `json:"quantity"`
	Details   string   `json:"details"`
	SplitInfo string   `json:"split_info"`
	Assignees []string `json:"assignees"`
}

func newResults(session splitting.Session) Results {
	totals := session.Ledger.PerPersonTotals()
	owed := make(map[string]string, len(totals))
	for _, total := range totals {
		owed[total.Name] = splitting.FormatCurrency(total.Amount)
	}

	items := make([]ItemLine, 0, len(session.Ledger.Items))
	for _, item := range session.Ledger.Items {
		items = append(items, ItemLine{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  splitting.FormatQuantity(item.Quantity),
			Details:   splitting.FormatItemDetails(item.Quantity, item.UnitPrice, item.TotalPrice),
			SplitInfo: splitting.FormatSplitInfo(len(item.Assignees), item.TotalPrice),
			Assignees: item.Assignees,
		})
	}

	return Results{
		SessionID: session.ID,
		Totals:    totals,
		Summary:   session.Ledger.Summary(),
		Owed:      owed,
		Items:     items,
	}
}
