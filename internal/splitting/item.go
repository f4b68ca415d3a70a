package splitting

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-splitter/internal/parsing"
)

// LineItem is a receipt item inside a session. TotalPrice is authoritative;
// UnitPrice is informational and never multiplied back out.
type LineItem struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Source     parsing.Source  `json:"source"`
	Assignees  []string        `json:"assignees"` // insertion order, no duplicates
}

// NewLineItems gives each parsed item a fresh id and an empty assignee list.
func NewLineItems(items []parsing.Item, newID func() string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, LineItem{
			ID:         newID(),
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Source:     item.Source,
			Assignees:  []string{},
		})
	}
	return out
}

// IsAssignedTo reports whether name shares the item
func (i LineItem) IsAssignedTo(name string) bool {
	return slices.Contains(i.Assignees, name)
}

// IsAssigned reports whether anyone shares the item
func (i LineItem) IsAssigned() bool {
	return len(i.Assignees) > 0
}

// AmountPerPerson is the equal share of the total for each assignee, or zero
// when nobody is assigned.
func (i LineItem) AmountPerPerson() decimal.Decimal {
	if !i.IsAssigned() {
		return decimal.Zero
	}
	return i.TotalPrice.Div(decimal.NewFromInt(int64(len(i.Assignees))))
}

func (i LineItem) clone() LineItem {
	i.Assignees = append(make([]string, 0, len(i.Assignees)), i.Assignees...)
	return i
}
