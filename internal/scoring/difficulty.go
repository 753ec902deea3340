package scoring

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	DifficultyLow    Difficulty = "low"
	DifficultyNormal Difficulty = "normal"
	DifficultyHigh   Difficulty = "high"
)

// ParseDifficulty accepts low/normal/high and the easy/medium/hard aliases.
// An empty value means normal.
func ParseDifficulty(value string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "normal", "medium":
		return DifficultyNormal, nil
	case "low", "easy":
		return DifficultyLow, nil
	case "high", "hard":
		return DifficultyHigh, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", value)
	}
}

// Multiplier is applied to every score component before weighting.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case DifficultyLow:
		return 1.2
	case DifficultyHigh:
		return 0.9
	default:
		return 1.0
	}
}

func (d Difficulty) juniorBonus() float64 {
	if d == DifficultyLow {
		return 15
	}
	return 10
}
