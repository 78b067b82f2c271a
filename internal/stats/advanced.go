package stats

import (
	"fmt"
	"math"
	"time"

	"trade-journal/internal/models"
)

// Risk band, in percent of balance, that counts as adherent.
const (
	MinAdherentRisk = 0.5
	MaxAdherentRisk = 2.0
)

// DaysPerMonth is the average month length used for trade frequency.
const DaysPerMonth = 30.44

// GroupStat is the average outcome of a group of trades.
type GroupStat struct {
	Key         string  `json:"key"`
	Trades      int     `json:"trades"`
	Wins        int     `json:"wins"`
	TotalProfit float64 `json:"totalProfit"`
	AvgProfit   float64 `json:"avgProfit"`
	WinRate     float64 `json:"winRate"`
}

// Advanced holds psychology, discipline and timing analytics.
type Advanced struct {
	Consistency     float64 `json:"consistency"`
	ProfitableWeeks int     `json:"profitableWeeks"`
	TotalWeeks      int     `json:"totalWeeks"`

	Moods     []GroupStat `json:"moods"`
	BestMood  string      `json:"bestMood"`
	WorstMood string      `json:"worstMood"`

	RiskAdherence   float64 `json:"riskAdherence"`
	DisciplineScore float64 `json:"disciplineScore"`

	Weekdays       []GroupStat `json:"weekdays"`
	BestDay        string      `json:"bestDay"`
	Instruments    []GroupStat `json:"instruments"`
	BestInstrument string      `json:"bestInstrument"`
	TradesPerMonth float64     `json:"tradesPerMonth"`

	LongestWinStreak  int `json:"longestWinStreak"`
	LongestLossStreak int `json:"longestLossStreak"`
}

// ComputeAdvanced returns the advanced analytics of trades.
func ComputeAdvanced(trades []models.Trade) Advanced {
	a := Advanced{
		BestMood:       NoMood,
		WorstMood:      NoMood,
		BestDay:        NoData,
		BestInstrument: NoData,
	}
	if len(trades) == 0 {
		return a
	}

	a.ProfitableWeeks, a.TotalWeeks = weeklyBuckets(trades)
	a.Consistency = safeDiv(float64(a.ProfitableWeeks), float64(a.TotalWeeks)) * 100

	a.Moods = groupBy(trades, func(t *models.Trade) (string, bool) {
		return string(t.Mood), t.Mood != ""
	})
	if best, worst, ok := extremes(a.Moods); ok {
		a.BestMood, a.WorstMood = best, worst
	}

	a.RiskAdherence = riskAdherence(trades)
	// Adherence is already a percentage; the extra scaling saturates the
	// score at 100 for any non-zero adherence.
	a.DisciplineScore = math.Min(100, a.RiskAdherence*100)

	a.Weekdays = groupBy(trades, func(t *models.Trade) (string, bool) {
		return t.Timestamp.UTC().Weekday().String(), true
	})
	if best, _, ok := extremes(a.Weekdays); ok {
		a.BestDay = best
	}
	a.Instruments = groupBy(trades, func(t *models.Trade) (string, bool) {
		return t.Symbol, true
	})
	if best, _, ok := extremes(a.Instruments); ok {
		a.BestInstrument = best
	}

	a.TradesPerMonth = float64(len(trades)) / monthsSpan(trades)
	a.LongestWinStreak, a.LongestLossStreak = streaks(trades)
	return a
}

// WeekKey buckets a timestamp by year and ceil((dayOfMonth+6)/7). This is a
// coarse bucket, not an ISO week: days from different months share a key.
func WeekKey(ts time.Time) string {
	ts = ts.UTC()
	week := int(math.Ceil(float64(ts.Day()+6) / 7))
	return fmt.Sprintf("%d-W%d", ts.Year(), week)
}

func weeklyBuckets(trades []models.Trade) (profitable, total int) {
	sums := make(map[string]float64)
	for _, t := range trades {
		sums[WeekKey(t.Timestamp)] += t.Profit
	}
	for _, v := range sums {
		if v > 0 {
			profitable++
		}
	}
	return profitable, len(sums)
}

// groupBy aggregates trades by key, keeping keys in first-seen order.
func groupBy(trades []models.Trade, key func(*models.Trade) (string, bool)) []GroupStat {
	index := make(map[string]int)
	var out []GroupStat
	for i := range trades {
		k, ok := key(&trades[i])
		if !ok {
			continue
		}
		j, seen := index[k]
		if !seen {
			j = len(out)
			index[k] = j
			out = append(out, GroupStat{Key: k})
		}
		out[j].Trades++
		out[j].TotalProfit += trades[i].Profit
		if trades[i].Profit > 0 {
			out[j].Wins++
		}
	}
	for i := range out {
		out[i].AvgProfit = safeDiv(out[i].TotalProfit, float64(out[i].Trades))
		out[i].WinRate = safeDiv(float64(out[i].Wins), float64(out[i].Trades)) * 100
	}
	return out
}

// extremes returns the keys with the highest and lowest average profit.
// The first group wins ties.
func extremes(groups []GroupStat) (best, worst string, ok bool) {
	if len(groups) == 0 {
		return "", "", false
	}
	hi, lo := 0, 0
	for i := 1; i < len(groups); i++ {
		if groups[i].AvgProfit > groups[hi].AvgProfit {
			hi = i
		}
		if groups[i].AvgProfit < groups[lo].AvgProfit {
			lo = i
		}
	}
	return groups[hi].Key, groups[lo].Key, true
}

func riskAdherence(trades []models.Trade) float64 {
	var n int
	for _, t := range trades {
		if t.RiskPercent >= MinAdherentRisk && t.RiskPercent <= MaxAdherentRisk {
			n++
		}
	}
	return safeDiv(float64(n), float64(len(trades))) * 100
}

func monthsSpan(trades []models.Trade) float64 {
	first, last := trades[0].Timestamp, trades[0].Timestamp
	for _, t := range trades[1:] {
		if t.Timestamp.Before(first) {
			first = t.Timestamp
		}
		if t.Timestamp.After(last) {
			last = t.Timestamp
		}
	}
	months := last.Sub(first).Hours() / 24 / DaysPerMonth
	if months < 1 {
		return 1
	}
	return months
}

func streaks(trades []models.Trade) (win, loss int) {
	sorted := append([]models.Trade(nil), trades...)
	SortOldestFirst(sorted)

	var curWin, curLoss int
	for _, t := range sorted {
		switch {
		case t.Profit > 0:
			curWin++
			curLoss = 0
		case t.Profit < 0:
			curLoss++
			curWin = 0
		default:
			curWin, curLoss = 0, 0
		}
		win = max(win, curWin)
		loss = max(loss, curLoss)
	}
	return win, loss
}
