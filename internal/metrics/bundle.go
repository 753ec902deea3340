package metrics

import (
	"time"

	"github.com/spigell/hireability/internal/snapshot"
)

// showcaseSize is how many repositories stand in for pinned ones when a
// profile pins nothing.
const showcaseSize = 6

// Bundle holds one scalar per named metric.
type Bundle struct {
	Consistency     int     `json:"consistencyScore"`
	Impact          int     `json:"impactScore"`
	Complexity      int     `json:"complexityScore"`
	GhostRatio      int     `json:"ghostRatio"`
	Readme          int     `json:"readmeScore"`
	AccountAgeYears float64 `json:"accountAgeYears"`
}

type Options struct {
	Impact ImpactPreset
	Now    time.Time
}

// Analysis is a Bundle together with the intermediate values it was built from.
type Analysis struct {
	Bundle       Bundle
	Languages    LanguageProfile
	PrimaryStack string
	Ghost        GhostReport
	Readme       ReadmeScore
	Hygiene      Hygiene
	Heatmap      []HeatCell
	TotalStars   int
}

// Compute runs every metric over the snapshot. A nil snapshot yields zeroed
// metrics with empty collections.
func Compute(snap *snapshot.Snapshot, opts Options) Analysis {
	if snap == nil {
		snap = &snapshot.Snapshot{}
	}
	if opts.Impact.Name == "" {
		opts.Impact = ImpactActivity
	}

	languages := AggregateLanguages(snap.Repositories)
	ghost := Ghost(languages)
	readme := ScoreReadme(ProfileReadme(snap))
	stars := TotalStars(snap.Repositories)
	showcase := snap.Showcase(showcaseSize)

	impactStars := stars
	if opts.Impact.PinnedOnly {
		impactStars = TotalStars(showcase)
	}

	return Analysis{
		Bundle: Bundle{
			Consistency:     Consistency(snap.Calendar),
			Impact:          Impact(opts.Impact, impactStars, snap.Followers, snap.Contributions.PullRequests),
			Complexity:      Complexity(snap.Repositories, languages),
			GhostRatio:      ghost.Ratio,
			Readme:          readme.Score,
			AccountAgeYears: AccountAgeYears(snap.Profile.CreatedAt, opts.Now),
		},
		Languages:    languages,
		PrimaryStack: PrimaryStack(languages),
		Ghost:        ghost,
		Readme:       readme,
		Hygiene:      CheckHygiene(showcase),
		Heatmap:      Heatmap(snap.Calendar),
		TotalStars:   stars,
	}
}
