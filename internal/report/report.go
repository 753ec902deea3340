package report

import (
	"time"

	"github.com/spigell/hireability/internal/enrichment"
	"github.com/spigell/hireability/internal/metrics"
	"github.com/spigell/hireability/internal/scoring"
	"github.com/spigell/hireability/internal/snapshot"
)

const (
	SourceProvider     = "provider"
	SourceFallbackStub = "fallback_stub"

	topLanguages         = 10
	defaultLanguageName  = "N/A"
	defaultLanguageColor = "#666"
)

// Enrichment is one AI judgment as delivered to the caller. Source tells
// whether Data came from a provider or is the static stand-in.
type Enrichment struct {
	Kind     enrichment.Kind `json:"kind"`
	Source   string          `json:"source"`
	Provider string          `json:"provider,omitempty"`
	Data     any             `json:"data"`
}

func (e Enrichment) FromProvider() bool {
	return e.Source == SourceProvider
}

type Vitals struct {
	PublicRepos int     `json:"publicRepos"`
	TotalStars  int     `json:"totalStars"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
	AccountAge  float64 `json:"accountAge"`
}

type Repo struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Stars         int    `json:"stars"`
	Forks         int    `json:"forks"`
	Language      string `json:"language"`
	LanguageColor string `json:"languageColor"`
	HasReadme     bool   `json:"hasReadme"`
	snapshot.RepoFeatureFlags
}

type Settings struct {
	Difficulty   scoring.Difficulty    `json:"difficulty"`
	Strictness   enrichment.Strictness `json:"strictness"`
	ImpactPreset string                `json:"impactPreset"`
}

// Report is the single payload of a full analysis. Every collection is
// non-nil so the shape never depends on which enrichments succeeded.
type Report struct {
	RequestID    string                         `json:"requestId,omitempty"`
	Profile      snapshot.Profile               `json:"profile"`
	Vitals       Vitals                         `json:"vitals"`
	Metrics      metrics.Bundle                 `json:"metrics"`
	Languages    metrics.LanguageProfile        `json:"languages"`
	PrimaryStack string                         `json:"primaryStack"`
	GhostCode    metrics.GhostReport            `json:"ghostCode"`
	Readme       metrics.ReadmeScore            `json:"readme"`
	Hygiene      metrics.Hygiene                `json:"hygiene"`
	Heatmap      []metrics.HeatCell             `json:"heatmap"`
	HiringOdds   scoring.Odds                   `json:"hiringOdds"`
	Enrichment   map[enrichment.Kind]Enrichment `json:"enrichment"`
	Repos        []Repo                         `json:"repos"`
	Settings     Settings                       `json:"settings"`
	GeneratedAt  time.Time                      `json:"generatedAt"`
}

type Input struct {
	RequestID string
	Snapshot  *snapshot.Snapshot
	Analysis  metrics.Analysis
	Odds      scoring.Odds
	// Requested lists the kinds the caller asked for. Each of them appears in
	// the report, with its stub when Results has no usable outcome.
	Requested []enrichment.Request
	Results   enrichment.Results
	Settings  Settings
	Now       time.Time
}

// Resolve turns an outcome into the delivered enrichment. It is the only
// place where a failed outcome is replaced by its stub.
func Resolve(kind enrichment.Kind, outcome enrichment.Outcome, in enrichment.StubInput) Enrichment {
	if outcome.OK() {
		return Enrichment{Kind: kind, Source: SourceProvider, Provider: outcome.Provider, Data: outcome.Data}
	}
	return Enrichment{Kind: kind, Source: SourceFallbackStub, Data: enrichment.Stub(kind, in)}
}

func Assemble(in Input) Report {
	snap := in.Snapshot
	if snap == nil {
		snap = &snapshot.Snapshot{}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	publicRepos := snap.PublicRepoCount
	if publicRepos == 0 {
		publicRepos = len(snap.Repositories)
	}

	enriched := make(map[enrichment.Kind]Enrichment, len(in.Requested))
	for _, req := range in.Requested {
		enriched[req.Kind] = Resolve(req.Kind, in.Results[req.Kind], req.StubInput())
	}

	return Report{
		RequestID: in.RequestID,
		Profile:   snap.Profile,
		Vitals: Vitals{
			PublicRepos: publicRepos,
			TotalStars:  in.Analysis.TotalStars,
			Followers:   snap.Followers,
			Following:   snap.Following,
			AccountAge:  in.Analysis.Bundle.AccountAgeYears,
		},
		Metrics:      in.Analysis.Bundle,
		Languages:    nonNilLanguages(in.Analysis.Languages.Top(topLanguages)),
		PrimaryStack: in.Analysis.PrimaryStack,
		GhostCode:    in.Analysis.Ghost,
		Readme:       nonNilReadme(in.Analysis.Readme),
		Hygiene:      nonNilHygiene(in.Analysis.Hygiene),
		Heatmap:      nonNilHeatmap(in.Analysis.Heatmap),
		HiringOdds:   in.Odds,
		Enrichment:   enriched,
		Repos:        repos(snap.Repositories),
		Settings:     in.Settings,
		GeneratedAt:  now.UTC(),
	}
}

func repos(list []snapshot.Repository) []Repo {
	out := make([]Repo, 0, len(list))
	for _, r := range list {
		language := r.PrimaryLanguage.Name
		if language == "" {
			language = defaultLanguageName
		}
		color := r.PrimaryLanguage.Color
		if color == "" {
			color = defaultLanguageColor
		}

		out = append(out, Repo{
			Name:             r.Name,
			Description:      r.Description,
			URL:              r.URL,
			Stars:            r.Stars,
			Forks:            r.Forks,
			Language:         language,
			LanguageColor:    color,
			HasReadme:        r.Readme != "",
			RepoFeatureFlags: r.Flags,
		})
	}
	return out
}

func nonNilLanguages(p metrics.LanguageProfile) metrics.LanguageProfile {
	if p == nil {
		return metrics.LanguageProfile{}
	}
	return p
}

func nonNilHeatmap(cells []metrics.HeatCell) []metrics.HeatCell {
	if cells == nil {
		return []metrics.HeatCell{}
	}
	return cells
}

func nonNilReadme(r metrics.ReadmeScore) metrics.ReadmeScore {
	if r.Missing == nil {
		r.Missing = []string{}
	}
	return r
}

func nonNilHygiene(h metrics.Hygiene) metrics.Hygiene {
	if h.RedFlags == nil {
		h.RedFlags = []string{}
	}
	return h
}
