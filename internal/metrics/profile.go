package metrics

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/hireability/internal/snapshot"
)

const (
	hoursPerYear         = 24 * 365
	hygieneReadmeMinimum = 100
)

var genericRepoNames = map[string]struct{}{
	"test":        {},
	"temp":        {},
	"hello-world": {},
	"my-project":  {},
}

// AccountAgeYears returns the account age in 365-day years rounded to one decimal.
func AccountAgeYears(createdAt, now time.Time) float64 {
	if createdAt.IsZero() || now.Before(createdAt) {
		return 0
	}
	years := now.Sub(createdAt).Hours() / hoursPerYear
	return math.Round(years*10) / 10
}

func TotalStars(repos []snapshot.Repository) int {
	total := 0
	for _, repo := range repos {
		total += max(repo.Stars, 0)
	}
	return total
}

// Hygiene summarizes presentation issues of the showcased repositories.
type Hygiene struct {
	ReadmeCoverage    int      `json:"readmeCoverage"`
	StructureCoverage int      `json:"structureCoverage"`
	RedFlags          []string `json:"redFlags"`
}

func CheckHygiene(repos []snapshot.Repository) Hygiene {
	hygiene := Hygiene{RedFlags: []string{}}
	if len(repos) == 0 {
		return hygiene
	}

	readmes, structured := 0, 0
	for _, repo := range repos {
		if utf8.RuneCountInString(repo.Readme) > hygieneReadmeMinimum {
			readmes++
		} else {
			hygiene.RedFlags = append(hygiene.RedFlags, fmt.Sprintf("Repo '%s' has no/empty README", repo.Name))
		}

		if repo.Flags.HasSrc || repo.Flags.HasCI {
			structured++
		}

		if _, ok := genericRepoNames[strings.ToLower(repo.Name)]; ok {
			hygiene.RedFlags = append(hygiene.RedFlags, fmt.Sprintf("Generic repo name detected: '%s'", repo.Name))
		}
	}

	hygiene.ReadmeCoverage = int(math.Round(float64(readmes) / float64(len(repos)) * 100))
	hygiene.StructureCoverage = int(math.Round(float64(structured) / float64(len(repos)) * 100))
	return hygiene
}

// ProfileReadme returns the README of the profile repository (named after the
// login) or, when there is none, the README of the first repository.
func ProfileReadme(snap *snapshot.Snapshot) string {
	if snap == nil || len(snap.Repositories) == 0 {
		return ""
	}
	for _, repo := range snap.Repositories {
		if strings.EqualFold(repo.Name, snap.Profile.Login) {
			return repo.Readme
		}
	}
	return snap.Repositories[0].Readme
}
