// Package calc computes profit/loss and risk figures for journaled trades.
//
// Forex profit uses a fixed $10 per standard lot per pip. Index profit is the
// raw price difference times the symbol's point value times size. Monetary
// results are rounded to cents when computed.
package calc

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"trade-journal/internal/instrument"
	"trade-journal/internal/models"
)

// PipValuePerLot is the monetary value of one pip for one standard lot.
const PipValuePerLot = 10.0

// Distance holds unsigned risk and reward distances in pips or points.
type Distance struct {
	Risk   float64 `json:"risk"`
	Reward float64 `json:"reward"`
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// move returns the favourable price move from entry to exit for dir.
func move(entry, exit float64, dir models.Direction) float64 {
	if dir == models.DirectionShort {
		return entry - exit
	}
	return exit - entry
}

// ProfitLoss returns the signed profit of moving from entry to exit with the
// given size, rounded to cents.
func ProfitLoss(entry, exit, size float64, symbol string, dir models.Direction) float64 {
	if instrument.Classify(symbol) == models.CategoryForex {
		pips := move(entry, exit, dir) / instrument.PipSize(symbol)
		return Round2(pips * (PipValuePerLot * size))
	}
	points := move(entry, exit, dir)
	return Round2(points * (instrument.PointValue(symbol) * size))
}

// PipsOrPoints returns the stop and target distances from entry. A nil or
// zero target yields a zero reward.
func PipsOrPoints(entry, stop float64, target *float64, symbol string, dir models.Direction) Distance {
	unit := 1.0
	if instrument.Classify(symbol) == models.CategoryForex {
		unit = instrument.PipSize(symbol)
	}

	d := Distance{Risk: math.Abs(move(entry, stop, dir) / unit)}
	if target != nil && *target != 0 {
		d.Reward = math.Abs(move(entry, *target, dir) / unit)
	}
	return d
}

// RiskAmount is the monetary loss if the stop is hit.
func RiskAmount(entry, stop, size float64, symbol string, dir models.Direction) float64 {
	return math.Abs(ProfitLoss(entry, stop, size, symbol, dir))
}

// RiskPercent expresses riskAmount as a percentage of balance. A
// non-positive balance yields 0.
func RiskPercent(riskAmount, balance float64) float64 {
	if balance <= 0 {
		return 0
	}
	return riskAmount / balance * 100
}

// Exit returns the price a trade is valued at: the target when recorded,
// otherwise the entry, which books the trade at zero.
func Exit(t *models.Trade) float64 {
	if t.HasTarget() {
		return *t.TakeProfit
	}
	return t.EntryPrice
}

// Derive regenerates the category and every derived field of t from its
// prices, size, symbol, direction and balance snapshot.
func Derive(t *models.Trade) {
	t.Category = instrument.Classify(t.Symbol)
	t.Profit = ProfitLoss(t.EntryPrice, Exit(t), t.PositionSize, t.Symbol, t.Direction)
	DeriveRisk(t)
}

// DeriveRisk regenerates only the risk fields of t.
func DeriveRisk(t *models.Trade) {
	t.RiskDistance = PipsOrPoints(t.EntryPrice, t.StopLoss, t.TakeProfit, t.Symbol, t.Direction).Risk
	t.RiskAmount = RiskAmount(t.EntryPrice, t.StopLoss, t.PositionSize, t.Symbol, t.Direction)
	t.RiskPercent = RiskPercent(t.RiskAmount, t.AccountBalanceAtEntry)
}

// NewTrade builds a trade from user input and account context and derives
// its computed fields.
func NewTrade(in models.TradeInput, balance float64, leverage int, now time.Time) models.Trade {
	t := models.Trade{
		Symbol:                in.Symbol,
		Direction:             in.Direction,
		EntryPrice:            in.EntryPrice,
		StopLoss:              in.StopLoss,
		PositionSize:          in.PositionSize,
		Mood:                  in.Mood,
		Notes:                 in.Notes,
		BeforeScreenshotURL:   in.BeforeScreenshotURL,
		AfterScreenshotURL:    in.AfterScreenshotURL,
		Timestamp:             now.UTC(),
		AccountBalanceAtEntry: balance,
		Leverage:              leverage,
	}
	if in.TakeProfit != nil && *in.TakeProfit > 0 {
		t.TakeProfit = models.Float(*in.TakeProfit)
	}
	if in.Leverage > 0 {
		t.Leverage = in.Leverage
	}
	Derive(&t)
	return t
}
