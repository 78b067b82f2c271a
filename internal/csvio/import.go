package csvio

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"trade-journal/internal/calc"
	"trade-journal/internal/instrument"
	"trade-journal/internal/models"
)

// DefaultPositionSize is used when a row has no usable size.
const DefaultPositionSize = 0.01

// Session is the account context stamped onto every imported trade.
type Session struct {
	OwnerID        string
	AccountID      string
	AccountBalance float64
	Leverage       int
	Now            func() time.Time
	Logger         zerolog.Logger
}

// Result reports what an import produced.
type Result struct {
	Trades   []models.Trade `json:"trades"`
	Imported int            `json:"imported"`
	Skipped  int            `json:"skipped"`
	Warnings []string       `json:"warnings,omitempty"`
}

type field int

const (
	fieldDate field = iota
	fieldSymbol
	fieldType
	fieldEntry
	fieldStop
	fieldTarget
	fieldSize
	fieldProfit
	fieldRiskPercent
	fieldMood
	fieldBefore
	fieldAfter
	fieldNotes
	fieldBalance
	fieldLeverage
	fieldTimestamp
)

// aliases maps normalized column names to fields. Columns that are always
// recomputed (category, risk amount, risk distance) or overridden by the
// session (owner, account) are ignored.
var aliases = map[string]field{
	"date":             fieldDate,
	"tradedate":        fieldDate,
	"symbol":           fieldSymbol,
	"pair":             fieldSymbol,
	"instrument":       fieldSymbol,
	"ticker":           fieldSymbol,
	"market":           fieldSymbol,
	"type":             fieldType,
	"direction":        fieldType,
	"side":             fieldType,
	"tradetype":        fieldType,
	"entry":            fieldEntry,
	"entryprice":       fieldEntry,
	"open":             fieldEntry,
	"openprice":        fieldEntry,
	"stop":             fieldStop,
	"stoploss":         fieldStop,
	"sl":               fieldStop,
	"stopprice":        fieldStop,
	"target":           fieldTarget,
	"takeprofit":       fieldTarget,
	"tp":               fieldTarget,
	"targetprice":      fieldTarget,
	"exit":             fieldTarget,
	"exitprice":        fieldTarget,
	"size":             fieldSize,
	"lotsize":          fieldSize,
	"lots":             fieldSize,
	"lot":              fieldSize,
	"positionsize":     fieldSize,
	"volume":           fieldSize,
	"profit":           fieldProfit,
	"pl":               fieldProfit,
	"pnl":              fieldProfit,
	"profitloss":       fieldProfit,
	"risk":             fieldRiskPercent,
	"riskpercent":      fieldRiskPercent,
	"riskpct":          fieldRiskPercent,
	"mood":             fieldMood,
	"emotion":          fieldMood,
	"beforescreenshot": fieldBefore,
	"screenshotbefore": fieldBefore,
	"before":           fieldBefore,
	"afterscreenshot":  fieldAfter,
	"screenshotafter":  fieldAfter,
	"after":            fieldAfter,
	"notes":            fieldNotes,
	"note":             fieldNotes,
	"comment":          fieldNotes,
	"comments":         fieldNotes,
	"accountbalance":   fieldBalance,
	"accountsize":      fieldBalance,
	"balance":          fieldBalance,
	"leverage":         fieldLeverage,
	"timestamp":        fieldTimestamp,
	"time":             fieldTimestamp,
	"datetime":         fieldTimestamp,
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	dateLayout,
	"01/02/2006",
}

// FromReader reads all of r and imports it with FromCSV.
func FromReader(r io.Reader, s Session) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read csv: %w", err)
	}
	return FromCSV(string(data), s), nil
}

// FromCSV parses CSV text into trades owned by the session's account.
//
// Rows whose column count differs from the header, and rows without a
// symbol or a numeric entry and stop, are skipped with a warning. Risk
// fields are always recomputed. Profit is recomputed when the file has no
// non-zero profit and the row has a target.
func FromCSV(text string, s Session) Result {
	var res Result
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start == len(lines) {
		return res
	}

	header := SplitLine(lines[start])
	columns := make(map[field]int)
	for i, name := range header {
		if f, ok := aliases[normalizeHeader(name)]; ok {
			if _, dup := columns[f]; !dup {
				columns[f] = i
			}
		}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	for n := start + 1; n < len(lines); n++ {
		line := lines[n]
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := SplitLine(line)
		if len(values) != len(header) {
			res.skip(s.Logger, n+1, fmt.Sprintf("expected %d columns, got %d", len(header), len(values)))
			continue
		}

		r := record{values: values, columns: columns}
		t, reason := r.trade(s, now)
		if reason != "" {
			res.skip(s.Logger, n+1, reason)
			continue
		}
		res.Trades = append(res.Trades, t)
	}

	res.Imported = len(res.Trades)
	s.Logger.Info().
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Msg("CSV parsed")
	return res
}

func (res *Result) skip(log zerolog.Logger, line int, reason string) {
	res.Skipped++
	msg := fmt.Sprintf("line %d: %s", line, reason)
	res.Warnings = append(res.Warnings, msg)
	log.Warn().Int("line", line).Str("reason", reason).Msg("Skipping CSV row")
}

type record struct {
	values  []string
	columns map[field]int
}

func (r record) get(f field) string {
	i, ok := r.columns[f]
	if !ok {
		return ""
	}
	return r.values[i]
}

// number parses a column, returning NaN when it is absent or not numeric.
func (r record) number(f field) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.get(f)), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (r record) timestamp(f field) (time.Time, bool) {
	raw := strings.TrimSpace(r.get(f))
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func (r record) trade(s Session, now func() time.Time) (models.Trade, string) {
	symbol := strings.ToUpper(strings.TrimSpace(r.get(fieldSymbol)))
	if symbol == "" {
		return models.Trade{}, "missing symbol"
	}
	entry, stop := r.number(fieldEntry), r.number(fieldStop)
	if math.IsNaN(entry) || math.IsNaN(stop) {
		return models.Trade{}, "entry or stop is not a number"
	}

	t := models.Trade{
		OwnerID:             s.OwnerID,
		AccountID:           s.AccountID,
		Symbol:              symbol,
		Direction:           models.DirectionLong,
		EntryPrice:          entry,
		StopLoss:            stop,
		PositionSize:        DefaultPositionSize,
		Mood:                models.Mood(strings.TrimSpace(r.get(fieldMood))),
		Notes:               r.get(fieldNotes),
		BeforeScreenshotURL: strings.TrimSpace(r.get(fieldBefore)),
		AfterScreenshotURL:  strings.TrimSpace(r.get(fieldAfter)),
		Leverage:            s.Leverage,
	}
	if d, ok := models.ParseDirection(r.get(fieldType)); ok {
		t.Direction = d
	}
	if size := r.number(fieldSize); usable(size) {
		t.PositionSize = size
	}
	if target := r.number(fieldTarget); usable(target) {
		t.TakeProfit = models.Float(target)
	}
	if lev, err := strconv.Atoi(strings.TrimSpace(r.get(fieldLeverage))); err == nil && lev > 0 {
		t.Leverage = lev
	}

	if ts, ok := r.timestamp(fieldTimestamp); ok {
		t.Timestamp = ts
	} else if ts, ok := r.timestamp(fieldDate); ok {
		t.Timestamp = ts
	} else {
		t.Timestamp = now().UTC()
	}

	t.AccountBalanceAtEntry = s.AccountBalance
	if balance := r.number(fieldBalance); usable(balance) {
		t.AccountBalanceAtEntry = balance
	}

	t.Category = instrument.Classify(t.Symbol)
	t.Profit = r.number(fieldProfit)
	if math.IsNaN(t.Profit) || math.IsInf(t.Profit, 0) {
		t.Profit = 0
	}
	if t.Profit == 0 && t.HasTarget() {
		t.Profit = calc.ProfitLoss(t.EntryPrice, *t.TakeProfit, t.PositionSize, t.Symbol, t.Direction)
	}

	calc.DeriveRisk(&t)
	if !usable(t.AccountBalanceAtEntry) {
		if stored := r.number(fieldRiskPercent); !math.IsNaN(stored) && !math.IsInf(stored, 0) {
			t.RiskPercent = stored
		}
	}
	return t, ""
}
