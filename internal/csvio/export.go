// Package csvio converts journaled trades to and from CSV and JSON backups.
package csvio

import (
	"strconv"
	"strings"
	"time"

	"trade-journal/internal/models"
)

// Header is the fixed column order of exported files.
var Header = []string{
	"Date", "Symbol", "Type", "Instrument Type",
	"Entry Price", "Stop Loss", "Take Profit", "Lot Size",
	"Profit", "Risk Amount", "Risk %", "Risk Distance",
	"Mood", "Before Screenshot", "After Screenshot", "Notes",
	"Account Balance", "Leverage", "Timestamp", "Account ID",
}

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano
)

// ToCSV renders trades with one header line and one line per trade.
//
// Notes and screenshot URLs are always quoted with internal quotes doubled.
// Other text columns are quoted only when they contain a comma or a quote.
// Line breaks inside text are flattened to spaces since the reader splits
// records on newlines.
func ToCSV(trades []models.Trade) string {
	var b strings.Builder
	b.WriteString(strings.Join(Header, ","))
	for i := range trades {
		b.WriteByte('\n')
		b.WriteString(strings.Join(row(&trades[i]), ","))
	}
	return b.String()
}

func row(t *models.Trade) []string {
	target := ""
	if t.HasTarget() {
		target = formatFloat(*t.TakeProfit)
	}
	ts := t.Timestamp.UTC()
	return []string{
		ts.Format(dateLayout),
		quoteIfNeeded(t.Symbol),
		string(t.Direction),
		string(t.Category),
		formatFloat(t.EntryPrice),
		formatFloat(t.StopLoss),
		target,
		formatFloat(t.PositionSize),
		formatFloat(t.Profit),
		formatFloat(t.RiskAmount),
		formatFloat(t.RiskPercent),
		formatFloat(t.RiskDistance),
		quoteIfNeeded(string(t.Mood)),
		quote(t.BeforeScreenshotURL),
		quote(t.AfterScreenshotURL),
		quote(t.Notes),
		formatFloat(t.AccountBalanceAtEntry),
		strconv.Itoa(t.Leverage),
		ts.Format(timestampLayout),
		quoteIfNeeded(t.AccountID),
	}
}

// ExportFileName returns the dated name of a CSV export.
func ExportFileName(now time.Time) string {
	return "trading-journal-" + now.Format(dateLayout) + ".csv"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var flatten = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func quote(s string) string {
	return `"` + strings.ReplaceAll(flatten.Replace(s), `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	s = flatten.Replace(s)
	if strings.ContainsAny(s, `,"`) {
		return quote(s)
	}
	return s
}
