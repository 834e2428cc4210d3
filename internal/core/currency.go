package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency has been configured.
const DefaultCurrency = "INR"

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// DisplayConfig carries the user's display preferences explicitly so that
// formatting never depends on ambient state.
type DisplayConfig struct {
	Currency string
}

// Format renders amount in the configured currency.
func (c DisplayConfig) Format(amount float64) string {
	return FormatCurrency(amount, c.Currency)
}

// Symbol returns the configured currency symbol.
func (c DisplayConfig) Symbol() string {
	return CurrencySymbol(c.Currency)
}

// CurrencySymbol returns the symbol for code; unknown codes fall back to the
// rupee sign.
func CurrencySymbol(code string) string {
	if s, ok := currencySymbols[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return s
	}
	return currencySymbols[DefaultCurrency]
}

// IsKnownCurrency reports whether code has a dedicated symbol.
func IsKnownCurrency(code string) bool {
	_, ok := currencySymbols[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// FormatCurrency renders the absolute value of amount with two decimals and
// comma-grouped thousands, prefixed by the currency symbol. Non-finite input
// renders as symbol + "0". Signs are left to the caller.
//
//	FormatCurrency(1234.5, "INR") -> "₹1,234.50"
//	FormatCurrency(math.NaN(), "USD") -> "$0"
func FormatCurrency(amount float64, code string) string {
	symbol := CurrencySymbol(code)
	if !IsFinite(amount) {
		return symbol + "0"
	}
	fixed := decimal.NewFromFloat(math.Abs(amount)).StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	return symbol + groupThousands(intPart) + "." + frac
}

// FixedString renders f rounded to places decimals, half away from zero.
// Non-finite values render as "0".
func FixedString(f float64, places int32) string {
	if !IsFinite(f) {
		return "0"
	}
	return decimal.NewFromFloat(f).StringFixed(places)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
