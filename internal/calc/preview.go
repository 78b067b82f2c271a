package calc

import (
	"math"

	"trade-journal/internal/instrument"
	"trade-journal/internal/models"
)

// PreviewInput is the state of a trade form before it is saved.
type PreviewInput struct {
	Symbol       string           `json:"symbol"`
	Direction    models.Direction `json:"type"`
	EntryPrice   float64          `json:"entryPrice"`
	StopLoss     float64          `json:"stopLoss"`
	TakeProfit   *float64         `json:"takeProfit"`
	PositionSize float64          `json:"lotSize"`
	Balance      float64          `json:"balance"`
	RiskPerTrade float64          `json:"riskPerTrade"` // percent of balance
}

// Preview is the live risk panel shown while a trade is being entered.
type Preview struct {
	Unit               string  `json:"unit"`
	RiskDistance       float64 `json:"riskDistance"`
	RewardDistance     float64 `json:"rewardDistance"`
	PotentialProfit    float64 `json:"potentialProfit"`
	PotentialLoss      float64 `json:"potentialLoss"`
	RiskAmount         float64 `json:"riskAmount"`
	RiskPercent        float64 `json:"riskPercent"`
	RiskReward         float64 `json:"riskReward"`
	MaxRiskAmount      float64 `json:"maxRiskAmount"`
	RecommendedLotSize float64 `json:"recommendedLotSize"`
}

// Ready reports whether enough of the form is filled to compute a preview.
func (in PreviewInput) Ready() bool {
	return in.EntryPrice > 0 && in.StopLoss > 0 && in.Symbol != ""
}

// ComputePreview returns the risk panel for in. It returns a zero Preview
// when the form is not ready.
func ComputePreview(in PreviewInput) Preview {
	if !in.Ready() {
		return Preview{}
	}

	hasTarget := in.TakeProfit != nil && *in.TakeProfit > 0
	dist := PipsOrPoints(in.EntryPrice, in.StopLoss, in.TakeProfit, in.Symbol, in.Direction)

	p := Preview{
		Unit:           instrument.Unit(instrument.Classify(in.Symbol)),
		RiskDistance:   dist.Risk,
		RewardDistance: dist.Reward,
		PotentialLoss:  ProfitLoss(in.EntryPrice, in.StopLoss, in.PositionSize, in.Symbol, in.Direction),
	}
	if hasTarget {
		p.PotentialProfit = ProfitLoss(in.EntryPrice, *in.TakeProfit, in.PositionSize, in.Symbol, in.Direction)
	}
	p.RiskAmount = math.Abs(p.PotentialLoss)
	p.RiskPercent = RiskPercent(p.RiskAmount, in.Balance)
	if hasTarget && p.PotentialLoss != 0 {
		p.RiskReward = math.Abs(p.PotentialProfit / p.PotentialLoss)
	}

	p.MaxRiskAmount = in.Balance * (in.RiskPerTrade / 100)
	riskPerLot := RiskAmount(in.EntryPrice, in.StopLoss, 1, in.Symbol, in.Direction)
	if riskPerLot > 0 {
		p.RecommendedLotSize = Round2(p.MaxRiskAmount / riskPerLot)
	}
	return p
}
