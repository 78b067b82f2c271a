// Package instrument classifies journal symbols into forex pairs and indices
// and exposes the unit size used for each category.
package instrument

import (
	"strings"

	"trade-journal/internal/models"
)

// ForexPairs are the forex symbols offered by the journal.
var ForexPairs = []string{"EUR/USD", "GBP/USD", "USD/JPY", "USD/CHF", "AUD/USD", "USD/CAD", "NZD/USD"}

// Indices are the index symbols offered by the journal.
var Indices = []string{"US30", "SPX500", "NAS100", "GE30", "FTSE100", "NIKKEI225"}

// pointValues is the monetary value of one index point per lot.
var pointValues = map[string]float64{
	"US30":      1,
	"SPX500":    50,
	"NAS100":    20,
	"GE30":      1,
	"FTSE100":   1,
	"NIKKEI225": 1,
}

const (
	standardPip = 0.0001
	jpyPip      = 0.01
)

// Info describes how prices of a symbol are measured.
type Info struct {
	Symbol     string          `json:"symbol"`
	Category   models.Category `json:"category"`
	Unit       string          `json:"unit"`
	PipSize    float64         `json:"pipSize,omitempty"`
	PointValue float64         `json:"pointValue,omitempty"`
}

// Classify returns the category of symbol. Unrecognized symbols are
// treated as forex.
func Classify(symbol string) models.Category {
	if contains(ForexPairs, symbol) {
		return models.CategoryForex
	}
	if contains(Indices, symbol) {
		return models.CategoryIndices
	}
	return models.CategoryForex
}

// IsKnown reports whether symbol is in either static list.
func IsKnown(symbol string) bool {
	return contains(ForexPairs, symbol) || contains(Indices, symbol)
}

// PipSize returns 0.01 for JPY pairs and 0.0001 otherwise.
func PipSize(symbol string) float64 {
	if strings.Contains(symbol, "JPY") {
		return jpyPip
	}
	return standardPip
}

// PointValue returns the per-lot value of one index point, 1 when unknown.
func PointValue(symbol string) float64 {
	if v, ok := pointValues[symbol]; ok {
		return v
	}
	return 1
}

// Unit returns the distance unit label of a category.
func Unit(c models.Category) string {
	if c == models.CategoryIndices {
		return "points"
	}
	return "pips"
}

// Lookup returns the classification and unit size for symbol.
func Lookup(symbol string) Info {
	c := Classify(symbol)
	info := Info{Symbol: symbol, Category: c, Unit: Unit(c)}
	if c == models.CategoryForex {
		info.PipSize = PipSize(symbol)
	} else {
		info.PointValue = PointValue(symbol)
	}
	return info
}

// Symbols returns every offered symbol, forex first.
func Symbols() []string {
	out := make([]string, 0, len(ForexPairs)+len(Indices))
	out = append(out, ForexPairs...)
	return append(out, Indices...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
