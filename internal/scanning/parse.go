package scanning

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zombor/receipt-splitter/internal/parsing"
)

const defaultCurrency = "AZN"

var errNoJSON = errors.New("no JSON object found in response")

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
}

// parseReceiptJSON decodes a model reply. Code fences and any text around the
// outermost object are ignored.
func parseReceiptJSON(text string) (*ReceiptData, error) {
	text = stripCodeFence(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, errNoJSON
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx < startIdx {
		return nil, errNoJSON
	}

	var data ReceiptData
	if err := json.Unmarshal([]byte(text[startIdx:endIdx+1]), &data); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	data.Merchant = strings.TrimSpace(data.Merchant)
	data.Currency = strings.ToUpper(strings.TrimSpace(data.Currency))
	if data.Currency == "" {
		data.Currency = defaultCurrency
	}
	data.Date = normalizeDate(data.Date)

	return &data, nil
}

// decodeReply turns a model reply into ReceiptData. A reply that is not
// receipt JSON is kept as RawText instead of failing the scan.
func decodeReply(text string) *ReceiptData {
	data, err := parseReceiptJSON(text)
	if err != nil {
		slog.Warn("Model reply is not receipt JSON, keeping raw text", "error", err)
		return &ReceiptData{RawText: stripCodeFence(text), Currency: defaultCurrency}
	}
	return data
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func normalizeDate(value string) string {
	value = strings.TrimSpace(value)
	for _, format := range dateFormats {
		if d, err := time.Parse(format, value); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return value
}

// ParsedItems returns the usable items of the reply: names are trimmed,
// quantities are at least one and items without a name or a positive total
// are dropped.
func (d *ReceiptData) ParsedItems() []parsing.Item {
	items := make([]parsing.Item, 0, len(d.Items))
	for _, data := range d.Items {
		name := strings.TrimSpace(data.Name)
		if name == "" || !data.TotalPrice.IsPositive() {
			continue
		}
		items = append(items, parsing.Item{
			Name:       name,
			Quantity:   max(1, data.Quantity),
			UnitPrice:  data.UnitPrice,
			TotalPrice: data.TotalPrice,
			Source:     parsing.SourceScanner,
		})
		if len(items) == parsing.MaxItems {
			break
		}
	}
	return items
}
