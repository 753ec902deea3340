package metrics

import "github.com/spigell/hireability/internal/snapshot"

const (
	complexityLanguageShare = 5
	complexityPerLanguage   = 15
	complexityTests         = 25
	complexityCI            = 20
	complexityPerRepo       = 2
	complexityRepoCap       = 30
)

// Complexity is a bounded proxy for engineering depth: language breadth,
// presence of tests and CI, and the number of repositories.
func Complexity(repos []snapshot.Repository, profile LanguageProfile) int {
	languages := 0
	for _, share := range profile {
		if share.Percentage > complexityLanguageShare {
			languages++
		}
	}

	var hasTests, hasCI bool
	for _, repo := range repos {
		hasTests = hasTests || repo.Flags.HasTests
		hasCI = hasCI || repo.Flags.HasCI
	}

	score := languages * complexityPerLanguage
	if hasTests {
		score += complexityTests
	}
	if hasCI {
		score += complexityCI
	}
	score += min(complexityRepoCap, complexityPerRepo*len(repos))

	return min(100, score)
}
