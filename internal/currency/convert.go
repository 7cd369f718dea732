package currency

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Base is the currency canonical prices are stored in.
const Base = "USD"

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"CNY": "¥",
}

var errNoDigits = errors.New("no numeric value")

// ParseAmount extracts the numeric value from a display price such as
// "$1,850" or "€4,717.50" by stripping everything that is not a digit or a
// dot.
func ParseAmount(price string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero, errNoDigits
	}
	return decimal.NewFromString(b.String())
}

// Convert renders a base-currency price string in the target currency using
// the supplied rates. Unparseable input is returned unchanged; displayed
// prices are not used for settlement, so fail-soft beats failing the page.
func Convert(basePrice, target string, rates map[string]decimal.Decimal) string {
	amount, err := ParseAmount(basePrice)
	if err != nil {
		return basePrice
	}
	rate, ok := rates[target]
	if !ok {
		rate = decimal.NewFromInt(1)
	}
	return Format(amount.Mul(rate), target)
}

// Format renders amount with the target currency's symbol prefix, thousands
// separators, and exactly two decimal places.
func Format(amount decimal.Decimal, target string) string {
	symbol, ok := symbols[target]
	if !ok {
		symbol = "$"
	}
	return symbol + groupThousands(amount.StringFixed(2))
}

func groupThousands(fixed string) string {
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
