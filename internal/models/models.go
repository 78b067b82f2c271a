// Package models provides domain models for the trading journal.
package models

import "strings"

// Direction represents the side of a journaled trade.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// ParseDirection parses a direction, accepting buy/sell as synonyms.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy":
		return DirectionLong, true
	case "short", "sell":
		return DirectionShort, true
	default:
		return "", false
	}
}

// Valid reports whether d is long or short.
func (d Direction) Valid() bool {
	return d == DirectionLong || d == DirectionShort
}

// Category represents the instrument category of a symbol.
type Category string

const (
	CategoryForex   Category = "forex"
	CategoryIndices Category = "indices"
)

// Mood is a psychology tag attached to a trade. Known tags are listed below,
// anything else is kept as a free string.
type Mood string

const (
	MoodConfident   Mood = "confident"
	MoodNeutral     Mood = "neutral"
	MoodAnxious     Mood = "anxious"
	MoodGreedy      Mood = "greedy"
	MoodFearful     Mood = "fearful"
	MoodDisciplined Mood = "disciplined"
	MoodImpulsive   Mood = "impulsive"
)

// KnownMoods lists the mood tags offered by the journal.
var KnownMoods = []Mood{
	MoodConfident, MoodNeutral, MoodAnxious, MoodGreedy,
	MoodFearful, MoodDisciplined, MoodImpulsive,
}

// IsKnown reports whether m is one of the predefined tags.
func (m Mood) IsKnown() bool {
	for _, k := range KnownMoods {
		if m == k {
			return true
		}
	}
	return false
}
