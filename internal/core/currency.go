package core

import "fmt"

// CurrencyMeta describes how to render amounts for a currency code.
// All stored amounts are currency-agnostic; the code only affects
// display formatting.
type CurrencyMeta struct {
	Code   string
	Symbol string
}

// DefaultCurrency is the fallback for unknown or unset currency codes.
const DefaultCurrency = "USD"

var currencies = map[string]CurrencyMeta{
	"USD": {Code: "USD", Symbol: "$"},
	"EUR": {Code: "EUR", Symbol: "€"},
	"GBP": {Code: "GBP", Symbol: "£"},
	"JPY": {Code: "JPY", Symbol: "¥"},
	"INR": {Code: "INR", Symbol: "₹"},
	"CAD": {Code: "CAD", Symbol: "C$"},
	"AUD": {Code: "AUD", Symbol: "A$"},
}

// LookupCurrency returns the metadata for a code, falling back to USD.
func LookupCurrency(code string) CurrencyMeta {
	if meta, ok := currencies[code]; ok {
		return meta
	}
	return currencies[DefaultCurrency]
}

// ValidCurrency reports whether the code is a known currency.
func ValidCurrency(code string) bool {
	_, ok := currencies[code]
	return ok
}

// SupportedCurrencies lists the known currency codes in display order.
func SupportedCurrencies() []string {
	return []string{"USD", "EUR", "GBP", "JPY", "INR", "CAD", "AUD"}
}

// FormatAmount renders an amount for display, e.g. "$12.34" or
// "-€0.50". The sign precedes the symbol.
func FormatAmount(m Money, code string) string {
	meta := LookupCurrency(code)
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := meta.Symbol + centsToFixed(cents)
	if neg {
		return "-" + s
	}
	return s
}

// centsToFixed renders cents with exactly two decimals, "12.34".
func centsToFixed(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
