package stats

import (
	"time"

	"trade-journal/internal/models"
)

// BalancePoint is one step of the equity curve.
type BalancePoint struct {
	Time    time.Time `json:"time"`
	Balance float64   `json:"balance"`
}

// Distribution counts winning, losing and breakeven trades.
type Distribution struct {
	Win  int `json:"win"`
	Loss int `json:"loss"`
	Even int `json:"even"`
}

// CategoryCount counts trades per instrument category.
type CategoryCount struct {
	Forex   int `json:"forex"`
	Indices int `json:"indices"`
}

// Drawdown is the deepest peak-to-trough fall of the equity curve.
type Drawdown struct {
	Max    float64 `json:"max"`
	MaxPct float64 `json:"maxPct"`
}

// ChartData is everything a presentation layer needs to draw the dashboard.
type ChartData struct {
	Balance      []BalancePoint `json:"balance"`
	Distribution Distribution   `json:"distribution"`
	Categories   CategoryCount  `json:"categories"`
	Drawdown     Drawdown       `json:"drawdown"`
}

// Charts returns the chart series of trades for an account starting at
// accountBalance.
func Charts(trades []models.Trade, accountBalance float64) ChartData {
	var cd ChartData
	cd.Balance = BalanceSeries(trades, accountBalance)
	for _, t := range trades {
		switch {
		case t.Profit > 0:
			cd.Distribution.Win++
		case t.Profit < 0:
			cd.Distribution.Loss++
		default:
			cd.Distribution.Even++
		}
		switch t.Category {
		case models.CategoryForex:
			cd.Categories.Forex++
		case models.CategoryIndices:
			cd.Categories.Indices++
		}
	}
	cd.Drawdown = MaxDrawdown(cd.Balance, accountBalance)
	return cd
}

// BalanceSeries returns the running balance after each trade in
// chronological order.
func BalanceSeries(trades []models.Trade, accountBalance float64) []BalancePoint {
	sorted := append([]models.Trade(nil), trades...)
	SortOldestFirst(sorted)

	out := make([]BalancePoint, 0, len(sorted))
	balance := accountBalance
	for _, t := range sorted {
		balance += t.Profit
		out = append(out, BalancePoint{Time: t.Timestamp, Balance: balance})
	}
	return out
}

// MaxDrawdown measures the deepest fall from a running peak, the starting
// balance being the first peak.
func MaxDrawdown(series []BalancePoint, start float64) Drawdown {
	var dd Drawdown
	peak := start
	for _, p := range series {
		if p.Balance > peak {
			peak = p.Balance
			continue
		}
		if fall := peak - p.Balance; fall > dd.Max {
			dd.Max = fall
			if peak > 0 {
				dd.MaxPct = fall / peak * 100
			}
		}
	}
	return dd
}
