package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trade-journal/internal/instrument"
	"trade-journal/internal/models"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"AUD": "A$",
	"CAD": "C$",
	"NZD": "NZ$",
}

// CurrencySymbol returns the display symbol for a currency code, or the
// code followed by a space when it has none.
func CurrencySymbol(code string) string {
	code = strings.ToUpper(code)
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	if code == "" {
		return "$"
	}
	return code + " "
}

// FormatCurrency formats an amount with two decimals, thousands separators
// and the symbol of the account currency. Amounts are never converted.
func FormatCurrency(amount float64, code string) string {
	fixed := decimal.NewFromFloat(amount).Round(2)
	negative := fixed.IsNegative()
	parts := strings.SplitN(fixed.Abs().StringFixed(2), ".", 2)

	result := CurrencySymbol(code) + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPnL formats P&L with sign.
func FormatPnL(pnl float64, code string) string {
	formatted := FormatCurrency(pnl, code)
	if pnl > 0 {
		return "+" + formatted
	}
	return formatted
}

// FormatPercent formats a percentage.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// FormatPrice formats a price with the precision its size needs.
func FormatPrice(price float64) string {
	if price >= 100 {
		return fmt.Sprintf("%.2f", price)
	}
	return fmt.Sprintf("%.5f", price)
}

// FormatRiskReward formats a risk-reward ratio.
func FormatRiskReward(rr float64) string {
	return fmt.Sprintf("1:%.2f", rr)
}

// FormatDistance formats a risk or reward distance with its unit.
func FormatDistance(d float64, category models.Category) string {
	return fmt.Sprintf("%.1f %s", d, instrument.Unit(category))
}

// FormatDateTime formats a trade timestamp in local time.
func FormatDateTime(t time.Time) string {
	return t.Local().Format("02-Jan-2006 15:04")
}

// TruncateString truncates a string to max runes with ellipsis.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatLots formats a position size without trailing zeros.
func FormatLots(size float64) string {
	return decimal.NewFromFloat(size).String()
}
