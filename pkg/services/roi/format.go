package roi

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"KES": "KSh ",
}

// FormatMoney renders an amount with grouped thousands and no decimals, e.g. $12,500.
func FormatMoney(currency string, amount float64) string {
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = math.Abs(amount)
	}
	return sign + symbol + printer.Sprintf("%.0f", math.Round(amount))
}

// FormatPercent renders a percentage with the given precision.
func FormatPercent(value float64, precision int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df%%%%", precision), value)
}
