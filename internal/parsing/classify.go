package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	minLineLength = 3
	// shortKeywordLength is the rune count up to which a keyword must also
	// end on a word boundary, so "masa" does not match "Masala".
	shortKeywordLength = 4
)

// englishKeywords mark totals, payment, metadata and boilerplate lines
var englishKeywords = []string{
	"total", "subtotal", "tax", "vat", "tip", "gratuity", "service charge",
	"change", "cash", "card", "visa", "mastercard", "payment", "paid", "balance", "amount due",
	"discount", "receipt", "invoice", "thank", "visit", "welcome",
	"phone", "tel:", "tel.", "address", "www.", "http",
	"date", "time", "server", "waiter", "cashier", "table", "order",
}

// azerbaijaniKeywords carry the same meaning for Azerbaijani receipts
var azerbaijaniKeywords = []string{
	"cəmi", "yekun", "ümumi", "məbləğ", "vergi", "ədv", "xidmət haqqı",
	"ödəniş", "ödənilib", "nağd", "kartla", "bank kartı", "qalıq", "qaytarılan", "endirim",
	"qəbz", "çek", "təşəkkür", "xoş gəlmisiniz", "bizi seçdiyiniz",
	"telefon", "ünvan", "tarix", "saat", "ofisiant", "kassir", "masa", "sifariş",
}

// IsNoise reports whether a trimmed line should be skipped instead of being
// treated as a candidate item line.
func IsNoise(line string) bool {
	if utf8.RuneCountInString(line) < minLineLength {
		return true
	}
	if !hasLetter(line) {
		return true
	}
	return containsAny(foldEnglish(line), englishKeywords) ||
		containsAny(foldAzerbaijani(line), azerbaijaniKeywords)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if containsKeyword(s, keyword) {
			return true
		}
	}
	return false
}

// containsKeyword reports whether keyword occurs in s at the start of a word.
// Short keywords must also end a word.
func containsKeyword(s, keyword string) bool {
	whole := utf8.RuneCountInString(keyword) <= shortKeywordLength
	for offset := 0; offset < len(s); {
		i := strings.Index(s[offset:], keyword)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(keyword)
		if wordStart(s, start) && (!whole || wordEnd(s, end)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return false
}

func wordStart(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !unicode.IsLetter(r)
}

// wordEnd is true at the end of s, before a non-letter, or after a keyword
// that itself ends in punctuation such as "tel:".
func wordEnd(s string, i int) bool {
	if i == len(s) {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(s[:i])
	next, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(last) || !unicode.IsLetter(next)
}

// Casers keep state, so each call gets its own.
func foldEnglish(s string) string {
	return cases.Lower(language.English).String(norm.NFC.String(s))
}

// foldAzerbaijani lowercases with Azerbaijani rules so that "İ" folds to "i"
// and "I" to "ı".
func foldAzerbaijani(s string) string {
	return cases.Lower(language.Azerbaijani).String(norm.NFC.String(s))
}
