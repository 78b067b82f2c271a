package models

import "time"

// Trade represents a journaled discretionary trade.
//
// Profit, RiskDistance, RiskAmount and RiskPercent are derived from prices,
// size, symbol and direction. They are never edited directly.
type Trade struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	AccountID string `json:"accountId"`

	Symbol       string    `json:"symbol"`
	Direction    Direction `json:"type"`
	Category     Category  `json:"instrumentType"`
	EntryPrice   float64   `json:"entryPrice"`
	StopLoss     float64   `json:"stopLoss"`
	TakeProfit   *float64  `json:"takeProfit"`
	PositionSize float64   `json:"lotSize"`

	Mood                Mood   `json:"mood,omitempty"`
	Notes               string `json:"notes,omitempty"`
	BeforeScreenshotURL string `json:"beforeScreenshot,omitempty"`
	AfterScreenshotURL  string `json:"afterScreenshot,omitempty"`

	Timestamp time.Time `json:"timestamp"`

	Profit       float64 `json:"profit"`
	RiskDistance float64 `json:"pipsPoints"`
	RiskAmount   float64 `json:"riskAmount"`
	RiskPercent  float64 `json:"riskPercent"`

	// Account context at entry, never recalculated retroactively.
	AccountBalanceAtEntry float64 `json:"accountSize"`
	Leverage              int     `json:"leverage"`
}

// HasTarget reports whether a take-profit was recorded.
func (t *Trade) HasTarget() bool {
	return t.TakeProfit != nil && *t.TakeProfit > 0
}

// Target returns the take-profit or 0 when absent.
func (t *Trade) Target() float64 {
	if t.TakeProfit == nil {
		return 0
	}
	return *t.TakeProfit
}

// TradeInput is the user-editable part of a trade used by add and update.
type TradeInput struct {
	Symbol              string    `json:"symbol"`
	Direction           Direction `json:"type"`
	EntryPrice          float64   `json:"entryPrice"`
	StopLoss            float64   `json:"stopLoss"`
	TakeProfit          *float64  `json:"takeProfit"`
	PositionSize        float64   `json:"lotSize"`
	Mood                Mood      `json:"mood"`
	Notes               string    `json:"notes"`
	BeforeScreenshotURL string    `json:"beforeScreenshot"`
	AfterScreenshotURL  string    `json:"afterScreenshot"`
	Leverage            int       `json:"leverage"`
}

// Float returns a pointer to v, for optional price fields.
func Float(v float64) *float64 {
	return &v
}
