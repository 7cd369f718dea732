package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rates(eur, cny float64) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.NewFromFloat(eur),
		"CNY": decimal.NewFromFloat(cny),
	}
}

func TestConvertToEUR(t *testing.T) {
	got := Convert("5550", "EUR", rates(0.85, 7.2))
	assert.Equal(t, "€4,717.50", got)
}

func TestConvertKeepsSymbolsAndCommasOutOfTheMath(t *testing.T) {
	got := Convert("$1,850", "USD", rates(0.85, 7.2))
	assert.Equal(t, "$1,850.00", got)
}

func TestConvertCNY(t *testing.T) {
	got := Convert("$100", "CNY", rates(0.85, 7.2))
	assert.Equal(t, "¥720.00", got)
}

func TestConvertUnparseableReturnsInputUnchanged(t *testing.T) {
	assert.Equal(t, "Price on request", Convert("Price on request", "EUR", rates(0.85, 7.2)))
	assert.Equal(t, "", Convert("", "EUR", rates(0.85, 7.2)))
}

func TestConvertUnknownCurrencyUsesRateOne(t *testing.T) {
	assert.Equal(t, "$100.00", Convert("100", "GBP", rates(0.85, 7.2)))
}

func TestConvertRoundTripAtBaseRate(t *testing.T) {
	// Re-parsing the output's numeric portion and converting again at the
	// base currency must be stable.
	out := Convert("$1,850", "USD", rates(0.85, 7.2))
	parsed, err := ParseAmount(out)
	require.NoError(t, err)
	again := Convert(parsed.String(), "USD", rates(0.85, 7.2))
	assert.Equal(t, out, again)
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"$1,850", "1850"},
		{"€4,717.50", "4717.5"},
		{"5550", "5550"},
		{"¥720.00", "720"},
	}
	for _, tc := range cases {
		d, err := ParseAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, d.String(), tc.in)
	}

	_, err := ParseAmount("no digits here")
	assert.Error(t, err)
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "999.00", groupThousands("999.00"))
	assert.Equal(t, "1,000.00", groupThousands("1000.00"))
	assert.Equal(t, "1,234,567.89", groupThousands("1234567.89"))
	assert.Equal(t, "-1,234.50", groupThousands("-1234.50"))
}
