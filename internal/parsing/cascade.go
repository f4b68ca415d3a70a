package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	currencySymbol = `[$€£₼]`
	currencyCode   = `(?i:azn|eur|usd|man)\.?`
	amount         = `(\d+(?:[.,]\d+)?)`
	// price is an amount with an optional currency marker on either side
	price = `(?:` + currencySymbol + `\s?)?` + amount + `(?:\s?(?:` + currencySymbol + `|` + currencyCode + `))?`
)

// fieldMap names the submatch index of each field; zero means the pattern
// does not carry that field.
type fieldMap struct {
	name     int
	quantity int
	unit     int
	total    int
}

type linePattern struct {
	label  string
	re     *regexp.Regexp
	fields fieldMap
}

// cascade is tried top to bottom and the first accepted match wins. The
// multi-price shapes come first because the single-price shapes would also
// match their lines with the quantity and unit price folded into the name.
var cascade = []linePattern{
	{
		// Kebab 2 10.00 20.00, Fish x2 $10.00 $20.00
		label:  "name-qty-unit-total",
		re:     regexp.MustCompile(`^(.+?)\s+(?:[xX×]\s*)?(\d+)\s+` + price + `\s+` + price + `$`),
		fields: fieldMap{name: 1, quantity: 2, unit: 3, total: 4},
	},
	{
		// 2x Kebab 10.00 ea 20.00
		label:  "qty-x-name-unit-total",
		re:     regexp.MustCompile(`^(\d+)\s*(?:[xX×]\s*|\s+)(.+?)\s+` + price + `\s+(?:(?i:ea|each)\.?\s+)?` + price + `$`),
		fields: fieldMap{name: 2, quantity: 1, unit: 3, total: 4},
	},
	{
		// Kebab (2) 10.00 20.00, Kebab (2 pcs) 10.00 20.00
		label:  "name-paren-qty-unit-total",
		re:     regexp.MustCompile(`^(.+?)\s*\(\s*(\d+)\s*(?:(?i:pcs|pc|ədəd|əd)\.?)?\s*\)\s*` + price + `\s+` + price + `$`),
		fields: fieldMap{name: 1, quantity: 2, unit: 3, total: 4},
	},
	{
		// Kebab - 2 @ 10.00 = 20.00
		label:  "name-qty-at-unit-equals-total",
		re:     regexp.MustCompile(`^(.+?)\s*-\s*(\d+)\s*@\s*` + price + `\s*=\s*` + price + `$`),
		fields: fieldMap{name: 1, quantity: 2, unit: 3, total: 4},
	},
	{
		// Water    12.50
		label:  "name-spaced-total",
		re:     regexp.MustCompile(`^(.+?)\s{2,}` + price + `$`),
		fields: fieldMap{name: 1, total: 2},
	},
	{
		// 3. Ayran 2.00
		label:  "numbered-name-total",
		re:     regexp.MustCompile(`^\d+[.)]\s*(.+?)\s+` + price + `$`),
		fields: fieldMap{name: 1, total: 2},
	},
	{
		// Lahmacun 8.00 AZN, Lahmacun 8₼
		label:  "name-total-currency",
		re:     regexp.MustCompile(`^(.+?)\s*` + amount + `\s?(?:` + currencySymbol + `|` + currencyCode + `)$`),
		fields: fieldMap{name: 1, total: 2},
	},
	{
		// Lahmacun ₼8.00
		label:  "name-currency-total",
		re:     regexp.MustCompile(`^(.+?)\s+` + currencySymbol + `\s?` + amount + `$`),
		fields: fieldMap{name: 1, total: 2},
	},
}

var (
	leadingListNumber = regexp.MustCompile(`^\d+[.)]\s*`)
	multiSpace        = regexp.MustCompile(`\s+`)
	// trailingPrice matches a name whose last token is a price: a two-decimal
	// amount or any amount with a currency marker. Such a name means a lazy
	// group swallowed part of a multi-price line.
	trailingPrice = regexp.MustCompile(`(?:^|\s)(?:` + currencySymbol + `\s?\d+(?:[.,]\d+)?|\d+[.,]\d{2}|\d+\s?(?:` + currencySymbol + `|` + currencyCode + `))(?:\s?(?:` + currencySymbol + `|` + currencyCode + `))?$`)
)

// matchLine runs the cascade against a single candidate line.
func matchLine(line string) (Item, bool) {
	for _, p := range cascade {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if item, ok := p.fields.build(m); ok {
			return item, true
		}
	}
	return Item{}, false
}

func (f fieldMap) build(m []string) (Item, bool) {
	name := cleanName(m[f.name])
	if name == "" || !hasLetter(name) || trailingPrice.MatchString(name) {
		return Item{}, false
	}

	quantity := 1
	if f.quantity > 0 {
		q, err := strconv.Atoi(m[f.quantity])
		if err != nil || q < 1 {
			return Item{}, false
		}
		quantity = q
	}

	total := ParsePrice(m[f.total])
	if !total.IsPositive() {
		return Item{}, false
	}
	unit := total
	if f.unit > 0 {
		unit = ParsePrice(m[f.unit])
	}

	return Item{
		Name:       name,
		Quantity:   quantity,
		UnitPrice:  unit,
		TotalPrice: total,
		Source:     SourcePattern,
	}, true
}

// cleanName drops a leading list number, collapses internal whitespace and
// trims separator punctuation left over from the match.
func cleanName(raw string) string {
	name := leadingListNumber.ReplaceAllString(strings.TrimSpace(raw), "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.Trim(name, " .,;:-_*#@|")
}
