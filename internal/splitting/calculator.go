package splitting

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Share is one participant's part of a single item
type Share struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Amount    decimal.Decimal `json:"amount"`
	SplitWays int             `json:"split_ways"`
}

// PersonTotal is what one participant owes
type PersonTotal struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Shares []Share         `json:"shares"`
}

// Summary describes how much of a receipt has been assigned
type Summary struct {
	ReceiptTotal    decimal.Decimal `json:"receipt_total"`
	AssignedTotal   decimal.Decimal `json:"assigned_total"`
	UnassignedTotal decimal.Decimal `json:"unassigned_total"`
	ItemCount       int             `json:"item_count"`
	AssignedCount   int             `json:"assigned_count"`
}

// PerPersonTotals splits each assigned item equally among its assignees and
// sums the shares per participant. Unassigned items contribute nothing and
// only participants with at least one share appear. The result is sorted by
// name.
func PerPersonTotals(items []LineItem) []PersonTotal {
	byName := make(map[string]*PersonTotal)
	for _, item := range items {
		if !item.IsAssigned() {
			continue
		}
		share := item.AmountPerPerson()
		for _, name := range item.Assignees {
			total, ok := byName[name]
			if !ok {
				total = &PersonTotal{Name: name, Amount: decimal.Zero}
				byName[name] = total
			}
			total.Amount = total.Amount.Add(share)
			total.Shares = append(total.Shares, Share{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Amount:    share,
				SplitWays: len(item.Assignees),
			})
		}
	}

	totals := make([]PersonTotal, 0, len(byName))
	for _, total := range byName {
		totals = append(totals, *total)
	}
	slices.SortFunc(totals, func(a, b PersonTotal) int {
		return strings.Compare(a.Name, b.Name)
	})
	return totals
}

// Summarize totals the receipt and splits it into assigned and unassigned amounts
func Summarize(items []LineItem) Summary {
	s := Summary{
		ReceiptTotal:  decimal.Zero,
		AssignedTotal: decimal.Zero,
		ItemCount:     len(items),
	}
	for _, item := range items {
		s.ReceiptTotal = s.ReceiptTotal.Add(item.TotalPrice)
		if item.IsAssigned() {
			s.AssignedTotal = s.AssignedTotal.Add(item.TotalPrice)
			s.AssignedCount++
		}
	}
	s.UnassignedTotal = s.ReceiptTotal.Sub(s.AssignedTotal)
	return s
}
