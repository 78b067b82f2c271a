// Package stats derives dashboard statistics from a collection of journaled
// trades. Every function is pure and resolves empty subsets to zero values
// or placeholder labels rather than NaN or Inf.
package stats

import (
	"math"
	"sort"

	"trade-journal/internal/calc"
	"trade-journal/internal/models"
)

// ProfitFactorNoLosses is reported when there are winners but no losers.
const ProfitFactorNoLosses = 999.0

// Placeholder labels for empty analytics.
const (
	NoMood = "-"
	NoData = "No data"
)

// Summary holds the headline statistics of an account.
type Summary struct {
	TotalTrades     int     `json:"totalTrades"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	Breakeven       int     `json:"breakeven"`
	WinRate         float64 `json:"winRate"`
	TotalPL         float64 `json:"totalPL"`
	StartingBalance float64 `json:"startingBalance"`
	CurrentBalance  float64 `json:"currentBalance"`
	GrossProfit     float64 `json:"grossProfit"`
	GrossLoss       float64 `json:"grossLoss"`
	AvgWin          float64 `json:"avgWin"`
	AvgLoss         float64 `json:"avgLoss"`
	LargestWin      float64 `json:"largestWin"`
	LargestLoss     float64 `json:"largestLoss"`
	ProfitFactor    float64 `json:"profitFactor"`
	Expectancy      float64 `json:"expectancy"`
	AvgRiskReward   float64 `json:"avgRiskReward"`
}

// Compute returns the summary statistics of trades for an account whose
// configured balance is accountBalance.
func Compute(trades []models.Trade, accountBalance float64) Summary {
	s := Summary{
		TotalTrades:     len(trades),
		StartingBalance: accountBalance,
		CurrentBalance:  accountBalance,
	}
	if len(trades) == 0 {
		return s
	}

	for _, t := range trades {
		s.TotalPL += t.Profit
		switch {
		case t.Profit > 0:
			if s.Wins == 0 || t.Profit > s.LargestWin {
				s.LargestWin = t.Profit
			}
			s.Wins++
			s.GrossProfit += t.Profit
		case t.Profit < 0:
			if s.Losses == 0 || t.Profit < s.LargestLoss {
				s.LargestLoss = t.Profit
			}
			s.Losses++
			s.GrossLoss += t.Profit
		default:
			s.Breakeven++
		}
	}

	total := float64(s.TotalTrades)
	s.WinRate = float64(s.Wins) / total * 100
	s.CurrentBalance = accountBalance + s.TotalPL
	s.AvgWin = safeDiv(s.GrossProfit, float64(s.Wins))
	s.AvgLoss = safeDiv(s.GrossLoss, float64(s.Losses))

	switch {
	case s.Losses > 0:
		s.ProfitFactor = math.Abs(s.GrossProfit / s.GrossLoss)
	case s.Wins > 0:
		s.ProfitFactor = ProfitFactorNoLosses
	}

	s.Expectancy = float64(s.Wins)/total*s.AvgWin + float64(s.Losses)/total*s.AvgLoss
	s.AvgRiskReward = AvgRiskReward(trades)
	return s
}

// AvgRiskReward averages potential-profit-to-risk over trades that have a
// target and a positive risk amount. Potential profit is recomputed from
// prices, not read from the stored profit.
func AvgRiskReward(trades []models.Trade) float64 {
	var sum float64
	var n int
	for i := range trades {
		t := &trades[i]
		if !t.HasTarget() || t.RiskAmount <= 0 {
			continue
		}
		potential := math.Abs(calc.ProfitLoss(t.EntryPrice, *t.TakeProfit, t.PositionSize, t.Symbol, t.Direction))
		sum += potential / t.RiskAmount
		n++
	}
	return finite(safeDiv(sum, float64(n)))
}

// SymbolStat aggregates the trades of one symbol.
type SymbolStat struct {
	Symbol      string  `json:"symbol"`
	Trades      int     `json:"trades"`
	Wins        int     `json:"wins"`
	TotalProfit float64 `json:"totalProfit"`
	WinRate     float64 `json:"winRate"`
}

// BySymbol returns per-symbol totals ordered by total profit, highest first.
func BySymbol(trades []models.Trade) []SymbolStat {
	index := make(map[string]int)
	var out []SymbolStat
	for _, t := range trades {
		i, ok := index[t.Symbol]
		if !ok {
			i = len(out)
			index[t.Symbol] = i
			out = append(out, SymbolStat{Symbol: t.Symbol})
		}
		out[i].Trades++
		out[i].TotalProfit += t.Profit
		if t.Profit > 0 {
			out[i].Wins++
		}
	}
	for i := range out {
		out[i].WinRate = safeDiv(float64(out[i].Wins), float64(out[i].Trades)) * 100
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].TotalProfit > out[b].TotalProfit
	})
	return out
}

// Recent returns the profit of the n newest trades.
func Recent(trades []models.Trade, n int) float64 {
	sorted := append([]models.Trade(nil), trades...)
	SortNewestFirst(sorted)
	if n > len(sorted) {
		n = len(sorted)
	}
	var sum float64
	for _, t := range sorted[:n] {
		sum += t.Profit
	}
	return sum
}

// SortNewestFirst orders trades by timestamp, newest first.
func SortNewestFirst(trades []models.Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.After(trades[j].Timestamp)
	})
}

// SortOldestFirst orders trades by timestamp, oldest first.
func SortOldestFirst(trades []models.Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.Before(trades[j].Timestamp)
	})
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
