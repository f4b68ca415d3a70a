// Package parsing turns raw OCR text from a receipt into line items.
//
// Lines are filtered with a keyword and shape heuristic, matched against an
// ordered cascade of line patterns and deduplicated. When nothing matches at
// all, a fallback salvages any line that carries a price and, as a last
// resort, seeds placeholder items so that a session can still proceed.
//
// Parsing never fails: bad input only ever produces fewer items.
package parsing

import (
	"log/slog"
	"regexp"
	"strings"
)

// MaxItems bounds the number of items a single parse can return
const MaxItems = 10

var (
	reCRLF = regexp.MustCompile(`\r\n?`)
	reTabs = regexp.MustCompile(`\t+`)
)

// Option configures a Parser
type Option func(*Parser)

// WithoutPlaceholders disables placeholder seeding, so text that yields no
// real items parses to an empty list.
func WithoutPlaceholders() Option {
	return func(p *Parser) {
		p.placeholders = false
	}
}

// Parser extracts line items from receipt text. A Parser holds no mutable
// state and is safe for concurrent use.
type Parser struct {
	placeholders bool
}

// NewParser creates a Parser. Placeholder seeding is enabled unless
// WithoutPlaceholders is given.
func NewParser(opts ...Option) *Parser {
	p := &Parser{placeholders: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse extracts line items from text using the default Parser
func Parse(text string) []Item {
	return defaultParser.Parse(text)
}

// Parse extracts line items from text. The result is never nil and holds at
// most MaxItems items.
func (p *Parser) Parse(text string) []Item {
	lines := splitLines(text)

	items := make([]Item, 0)
	for _, line := range lines {
		if IsNoise(line) {
			continue
		}
		if item, ok := matchLine(line); ok {
			items = append(items, item)
		}
	}
	items = dedupe(items)
	if len(items) > 0 {
		slog.Debug("Parsed receipt text", "lines", len(lines), "items", len(items), "source", SourcePattern)
		return items
	}

	items = dedupe(salvage(lines))
	if len(items) > 0 {
		slog.Debug("Salvaged receipt items", "lines", len(lines), "items", len(items), "source", SourceSalvage)
		return items
	}

	if !p.placeholders {
		return items
	}
	if seeded := seedPlaceholders(text); len(seeded) > 0 {
		slog.Warn("No items recovered from receipt text, seeding placeholders", "lines", len(lines), "items", len(seeded))
		return seeded
	}
	return items
}

// splitLines normalizes line endings and tabs and returns trimmed, non-empty
// lines. Tabs become two spaces so tab-separated columns still read as a gap.
func splitLines(text string) []string {
	text = reCRLF.ReplaceAllString(text, "\n")
	text = reTabs.ReplaceAllString(text, "  ")
	text = strings.ReplaceAll(text, "\u00a0", " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// dedupe keeps the first item for each (name, total price) pair, preserves
// order and truncates to MaxItems.
func dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		key := dedupeKey(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
		if len(out) == MaxItems {
			break
		}
	}
	return out
}

func dedupeKey(item Item) string {
	name := strings.ToLower(strings.Join(strings.Fields(item.Name), " "))
	return name + "|" + item.TotalPrice.String()
}
