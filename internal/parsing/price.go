package parsing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var nonPriceChars = regexp.MustCompile(`[^0-9.]`)

// ParsePrice turns a price token such as "12,50", "₼3.00" or "7.5 AZN" into an
// amount. Commas are read as decimal separators. Unparseable tokens yield zero.
func ParsePrice(token string) decimal.Decimal {
	cleaned := nonPriceChars.ReplaceAllString(strings.ReplaceAll(token, ",", "."), "")
	if cleaned == "" {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
