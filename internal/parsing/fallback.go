package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	minSalvagedNameLength = 3
	// placeholderMinLength is the trimmed input length below which text is
	// treated as blank and never seeded with placeholders.
	placeholderMinLength = 20
)

var (
	salvagePrice = regexp.MustCompile(`\d+[.,]\d{2}`)
	salvageNoise = regexp.MustCompile(`(?i)\d+|[@=+*/×\-]|[$€£₼]|\b(?:azn|eur|usd|man)\b`)
	// salvageMarker runs after salvageNoise so an "x" left behind by "x2" or
	// "2x" is standalone.
	salvageMarker = regexp.MustCompile(`(?i)(?:^|\s)x(?:\s|$)`)
)

var placeholders = []struct {
	name  string
	price string
}{
	{"Chicken Kebab", "15.50"},
	{"Turkish Tea", "3.00"},
	{"Lahmacun", "8.00"},
}

// salvage is the first fallback tier: any non-noise line carrying a price
// becomes an item named after whatever text remains once prices, digits and
// operators are stripped.
func salvage(lines []string) []Item {
	var items []Item
	for _, line := range lines {
		if IsNoise(line) {
			continue
		}

		prices := salvagePrice.FindAllString(line, -1)
		if len(prices) == 0 {
			continue
		}
		total := decimal.Zero
		for _, p := range prices {
			total = decimal.Max(total, ParsePrice(p))
		}
		if !total.IsPositive() {
			continue
		}

		name := salvagedName(line)
		if name == "" {
			continue
		}

		items = append(items, Item{
			Name:       name,
			Quantity:   1,
			UnitPrice:  total,
			TotalPrice: total,
			Source:     SourceSalvage,
		})
	}
	return items
}

func salvagedName(line string) string {
	name := salvagePrice.ReplaceAllString(line, " ")
	name = salvageNoise.ReplaceAllString(name, " ")
	name = salvageMarker.ReplaceAllString(name, " ")
	name = cleanName(name)
	if utf8.RuneCountInString(name) < minSalvagedNameLength || !hasLetter(name) {
		return ""
	}
	return name
}

// seedPlaceholders is the last fallback tier. The items it returns are not
// read from the receipt and are marked with SourcePlaceholder.
func seedPlaceholders(text string) []Item {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < placeholderMinLength {
		return nil
	}

	items := make([]Item, 0, len(placeholders))
	for _, p := range placeholders {
		price := decimal.RequireFromString(p.price)
		items = append(items, Item{
			Name:       p.name,
			Quantity:   1,
			UnitPrice:  price,
			TotalPrice: price,
			Source:     SourcePlaceholder,
		})
	}
	return items
}
