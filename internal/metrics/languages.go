package metrics

import (
	"math"
	"sort"

	"github.com/spigell/hireability/internal/snapshot"
)

// LanguageShare is one aggregated language entry.
type LanguageShare struct {
	Name       string `json:"name"`
	Color      string `json:"color"`
	Bytes      int64  `json:"bytes"`
	Percentage int    `json:"percentage"`
}

// LanguageProfile is sorted descending by bytes.
type LanguageProfile []LanguageShare

// AggregateLanguages sums language bytes over all repositories.
// Entries with equal byte counts keep the order in which they were first seen.
func AggregateLanguages(repos []snapshot.Repository) LanguageProfile {
	profile := LanguageProfile{}
	index := make(map[string]int)
	var total int64

	for _, repo := range repos {
		for _, edge := range repo.Languages {
			if edge.Bytes <= 0 || edge.Name == "" {
				continue
			}
			i, ok := index[edge.Name]
			if !ok {
				i = len(profile)
				index[edge.Name] = i
				profile = append(profile, LanguageShare{Name: edge.Name, Color: edge.Color})
			}
			profile[i].Bytes += edge.Bytes
			total += edge.Bytes
		}
	}

	if total == 0 {
		return LanguageProfile{}
	}

	sort.SliceStable(profile, func(i, j int) bool {
		return profile[i].Bytes > profile[j].Bytes
	})

	assignPercentages(profile, total)
	return profile
}

// assignPercentages rounds every share and then takes back any overflow above
// 100 from the entries whose rounding gained the most.
func assignPercentages(profile LanguageProfile, total int64) {
	gains := make([]float64, len(profile))
	sum := 0
	for i := range profile {
		exact := float64(profile[i].Bytes) / float64(total) * 100
		rounded := int(math.Round(exact))
		profile[i].Percentage = rounded
		gains[i] = float64(rounded) - exact
		sum += rounded
	}

	for sum > 100 {
		best := -1
		for i := range profile {
			if profile[i].Percentage == 0 {
				continue
			}
			if best == -1 || gains[i] > gains[best] {
				best = i
			}
		}
		if best == -1 {
			return
		}
		profile[best].Percentage--
		gains[best]--
		sum--
	}
}

// Top returns at most n leading entries.
func (p LanguageProfile) Top(n int) LanguageProfile {
	if n < 0 || n >= len(p) {
		n = len(p)
	}
	out := make(LanguageProfile, n)
	copy(out, p[:n])
	return out
}

// Names returns the language names of the profile in order.
func (p LanguageProfile) Names() []string {
	names := make([]string, 0, len(p))
	for _, share := range p {
		names = append(names, share.Name)
	}
	return names
}

// PrimaryStack labels the profile by its two heaviest languages.
func PrimaryStack(p LanguageProfile) string {
	switch len(p) {
	case 0:
		return "Polyglot"
	case 1:
		return p[0].Name + " Developer"
	default:
		return p[0].Name + " + " + p[1].Name + " Developer"
	}
}
