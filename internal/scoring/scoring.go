package scoring

import (
	"math"

	"github.com/spigell/hireability/internal/metrics"
)

type Role string

const (
	RoleJunior Role = "junior"
	RoleSenior Role = "senior"
)

// Components are the difficulty-adjusted inputs of a composite score.
type Components struct {
	Consistency int `json:"consistency"`
	Complexity  int `json:"complexity"`
	Impact      int `json:"impact"`
}

type Weights struct {
	Consistency float64 `json:"consistency"`
	Complexity  float64 `json:"complexity"`
	Impact      float64 `json:"impact"`
	Bonus       float64 `json:"bonus"`
}

var (
	seniorWeights = Weights{Consistency: 0.30, Complexity: 0.40, Impact: 0.30}
	juniorWeights = Weights{Consistency: 0.40, Complexity: 0.30, Impact: 0.30}
)

type Composite struct {
	Role       Role       `json:"role"`
	Score      int        `json:"score"`
	Components Components `json:"components"`
	Weights    Weights    `json:"weights"`
	Bottleneck string     `json:"bottleneck"`
}

// Odds holds both role variants computed from the same bundle.
type Odds struct {
	Junior Composite `json:"junior"`
	Senior Composite `json:"senior"`
}

// Score builds the junior and senior composites for the bundle.
func Score(bundle metrics.Bundle, difficulty Difficulty) Odds {
	components := Adjust(bundle, difficulty)

	junior := juniorWeights
	junior.Bonus = difficulty.juniorBonus()

	return Odds{
		Junior: composite(RoleJunior, components, junior, JuniorRules),
		Senior: composite(RoleSenior, components, seniorWeights, SeniorRules),
	}
}

// Adjust applies the difficulty multiplier to each component and re-clamps it.
func Adjust(bundle metrics.Bundle, difficulty Difficulty) Components {
	m := difficulty.Multiplier()
	return Components{
		Consistency: clamp(math.Round(float64(bundle.Consistency) * m)),
		Complexity:  clamp(math.Round(float64(bundle.Complexity) * m)),
		Impact:      clamp(math.Round(float64(bundle.Impact) * m)),
	}
}

func composite(role Role, c Components, w Weights, rules []Rule) Composite {
	weighted := w.Consistency*float64(c.Consistency) +
		w.Complexity*float64(c.Complexity) +
		w.Impact*float64(c.Impact) +
		w.Bonus

	return Composite{
		Role:       role,
		Score:      clamp(math.Round(weighted)),
		Components: c,
		Weights:    w,
		Bottleneck: Diagnose(rules, c),
	}
}

func clamp(v float64) int {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(v)
	}
}
