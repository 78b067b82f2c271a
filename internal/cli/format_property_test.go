package cli

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// parseCurrency strips the symbol and separators from a formatted amount.
func parseCurrency(s, symbol string) float64 {
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, symbol)
	s = strings.ReplaceAll(s, ",", "")
	v, _ := strconv.ParseFloat(s, 64)
	if negative {
		v = -v
	}
	return v
}

func TestProperty_CurrencyFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	grouped := regexp.MustCompile(`^\d{1,3}(,\d{3})*\.\d{2}$`)

	properties.Property("FormatCurrency groups thousands with two decimals", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatCurrency(amount, "USD")
			body := strings.TrimPrefix(strings.TrimPrefix(formatted, "-"), "$")
			if !grouped.MatchString(body) {
				t.Logf("bad grouping for %f: %s", amount, formatted)
				return false
			}
			return strings.HasPrefix(formatted, "-") == (math.Round(amount*100) < 0)
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.Property("FormatCurrency preserves value", prop.ForAll(
		func(amount float64) bool {
			parsed := parseCurrency(FormatCurrency(amount, "EUR"), "€")
			return math.Abs(parsed-amount) <= 0.005+1e-6
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0.00", FormatCurrency(0, "USD"))
	assert.Equal(t, "$1,234,567.89", FormatCurrency(1234567.891, "usd"))
	assert.Equal(t, "-£500.50", FormatCurrency(-500.5, "GBP"))
	assert.Equal(t, "CHF 10,000.00", FormatCurrency(10000, "CHF"))
	assert.Equal(t, "+$12.30", FormatPnL(12.3, "USD"))
	assert.Equal(t, "-$12.30", FormatPnL(-12.3, "USD"))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "1.10000", FormatPrice(1.1))
	assert.Equal(t, "18000.00", FormatPrice(18000))
	assert.Equal(t, "0.5", FormatLots(0.5))
	assert.Equal(t, "1:2.00", FormatRiskReward(2))
	assert.Equal(t, "50.0 pips", FormatDistance(50, "forex"))
	assert.Equal(t, "40.0 points", FormatDistance(40, "indices"))
	assert.Equal(t, "abcd...", TruncateString("abcdefghij", 7))
	assert.Equal(t, "abc", TruncateString("abc", 7))
}

func TestGroupThousands(t *testing.T) {
	cases := map[string]string{
		"1":       "1",
		"123":     "123",
		"1234":    "1,234",
		"123456":  "123,456",
		"1234567": "1,234,567",
	}
	for in, want := range cases {
		assert.Equal(t, want, groupThousands(in), in)
	}
}
