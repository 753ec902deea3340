package metrics

import (
	"fmt"
	"strings"
)

// ImpactPreset holds the coefficients of one impact formula.
type ImpactPreset struct {
	Name         string `json:"name"`
	Stars        int    `json:"stars"`
	Followers    int    `json:"followers"`
	PullRequests int    `json:"pullRequests"`
	// PinnedOnly limits the star count to the showcased repositories.
	PinnedOnly bool `json:"pinnedOnly"`
}

var (
	// ImpactActivity weighs stars over every repository and merged work.
	ImpactActivity = ImpactPreset{Name: "activity", Stars: 3, Followers: 2, PullRequests: 5}
	// ImpactShowcase weighs only the stars of the pinned repositories.
	ImpactShowcase = ImpactPreset{Name: "showcase", Stars: 5, Followers: 2, PinnedOnly: true}
)

// ImpactPresetByName resolves a preset; an empty name selects ImpactActivity.
func ImpactPresetByName(name string) (ImpactPreset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ImpactActivity.Name:
		return ImpactActivity, nil
	case ImpactShowcase.Name:
		return ImpactShowcase, nil
	default:
		return ImpactPreset{}, fmt.Errorf("unknown impact preset %q", name)
	}
}

// Impact returns the preset's weighted sum capped at 100.
func Impact(preset ImpactPreset, stars, followers, pullRequests int) int {
	score := preset.Stars*max(stars, 0) +
		preset.Followers*max(followers, 0) +
		preset.PullRequests*max(pullRequests, 0)

	return min(100, score)
}
