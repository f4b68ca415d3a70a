package splitting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const currencySymbol = "₼"

// FormatCurrency renders an amount in manat with two decimals, e.g. ₼12.50
func FormatCurrency(d decimal.Decimal) string {
	return currencySymbol + d.StringFixed(2)
}

// FormatQuantity renders a count of items, e.g. "2 items"
func FormatQuantity(quantity int) string {
	if quantity == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", quantity)
}

// FormatItemDetails renders quantity, unit price and total on one line
func FormatItemDetails(quantity int, unitPrice, totalPrice decimal.Decimal) string {
	return fmt.Sprintf("Qty: %d × %s = %s", quantity, FormatCurrency(unitPrice), FormatCurrency(totalPrice))
}

// FormatSplitInfo describes how an item total is shared
func FormatSplitInfo(ways int, totalPrice decimal.Decimal) string {
	if ways <= 0 {
		return "Not assigned"
	}
	each := totalPrice.Div(decimal.NewFromInt(int64(ways)))
	return fmt.Sprintf("Split %d ways: %s each", ways, FormatCurrency(each))
}
