package calc

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"trade-journal/internal/instrument"
	"trade-journal/internal/models"
)

func TestProperty_ProfitLossSign(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	symbols := instrument.Symbols()

	properties.Property("long and short profits are mirror images", prop.ForAll(
		func(idx int, entry, delta, size float64) bool {
			symbol := symbols[idx%len(symbols)]
			exit := entry + delta
			long := ProfitLoss(entry, exit, size, symbol, models.DirectionLong)
			short := ProfitLoss(entry, exit, size, symbol, models.DirectionShort)
			if long != -short {
				t.Logf("%s long=%v short=%v", symbol, long, short)
				return false
			}
			return long >= 0
		},
		gen.IntRange(0, len(symbols)-1),
		gen.Float64Range(0.5, 20000),
		gen.Float64Range(0.01, 50),
		gen.Float64Range(0.01, 10),
	))

	properties.Property("risk amount matches the stop-out loss and risk percent derives from it", prop.ForAll(
		func(idx int, entry, stopDelta, size, balance float64) bool {
			symbol := symbols[idx%len(symbols)]
			stop := entry - stopDelta
			tr := models.Trade{
				Symbol:                symbol,
				Direction:             models.DirectionLong,
				EntryPrice:            entry,
				StopLoss:              stop,
				PositionSize:          size,
				AccountBalanceAtEntry: balance,
			}
			Derive(&tr)
			loss := ProfitLoss(entry, stop, size, symbol, models.DirectionLong)
			return tr.RiskAmount == math.Abs(loss) &&
				tr.RiskPercent == tr.RiskAmount/balance*100 &&
				tr.Profit == 0
		},
		gen.IntRange(0, len(symbols)-1),
		gen.Float64Range(1, 20000),
		gen.Float64Range(0.0001, 0.9),
		gen.Float64Range(0.01, 10),
		gen.Float64Range(100, 1000000),
	))

	properties.TestingRun(t)
}
