package documents

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a monetary value with thousands grouping and two
// decimals, prefixed by the currency code.
func FormatAmount(currencyCode string, v float64) string {
	return printer.Sprintf("%s %v", currencyCode,
		number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
