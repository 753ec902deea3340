package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/hireability/internal/snapshot"
	"go.uber.org/zap"
)

type totalCount struct {
	TotalCount int `json:"totalCount"`
}

type object struct {
	ID string `json:"id"`
}

type blob struct {
	Text string `json:"text"`
}

type language struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type repository struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	StargazerCount  int       `json:"stargazerCount"`
	ForkCount       int       `json:"forkCount"`
	IsArchived      bool      `json:"isArchived"`
	PrimaryLanguage *language `json:"primaryLanguage"`
	Languages       struct {
		Edges []struct {
			Size int64    `json:"size"`
			Node language `json:"node"`
		} `json:"edges"`
	} `json:"languages"`
	UpdatedAt    time.Time `json:"updatedAt"`
	PushedAt     time.Time `json:"pushedAt"`
	DiskUsage    int       `json:"diskUsage"`
	Readme       *blob     `json:"readme"`
	PackageJSON  *blob     `json:"packageJson"`
	Contributing *blob     `json:"contributing"`
	SrcDir       *object   `json:"srcDir"`
	Workflows    *object   `json:"workflows"`
	TestsDir     *object   `json:"testsDir"`
	TestDir      *object   `json:"testDir"`
	SpecDir      *object   `json:"specDir"`
	Eslintrc     *object   `json:"eslintrc"`
	Prettierrc   *object   `json:"prettierrc"`
	Golangci     *object   `json:"golangci"`
}

type user struct {
	Login        string     `json:"login"`
	Name         string     `json:"name"`
	AvatarURL    string     `json:"avatarUrl"`
	Bio          string     `json:"bio"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	WebsiteURL   string     `json:"websiteUrl"`
	CreatedAt    time.Time  `json:"createdAt"`
	Followers    totalCount `json:"followers"`
	Following    totalCount `json:"following"`
	Repositories struct {
		TotalCount int          `json:"totalCount"`
		Nodes      []repository `json:"nodes"`
	} `json:"repositories"`
	PinnedItems struct {
		Nodes []repository `json:"nodes"`
	} `json:"pinnedItems"`
	ContributionsCollection struct {
		TotalCommitContributions      int `json:"totalCommitContributions"`
		TotalPullRequestContributions int `json:"totalPullRequestContributions"`
		TotalIssueContributions       int `json:"totalIssueContributions"`
		TotalRepositoryContributions  int `json:"totalRepositoryContributions"`
		ContributionCalendar          struct {
			Weeks []struct {
				ContributionDays []struct {
					ContributionCount int    `json:"contributionCount"`
					Date              string `json:"date"`
				} `json:"contributionDays"`
			} `json:"weeks"`
		} `json:"contributionCalendar"`
	} `json:"contributionsCollection"`
}

// FetchSnapshot reads the public activity of login and normalizes it.
func (c *Client) FetchSnapshot(ctx context.Context, login string) (*snapshot.Snapshot, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, fmt.Errorf("%w: empty login", ErrNotFound)
	}

	data, err := c.query(ctx, userQuery, map[string]any{"login": login})
	if err != nil {
		return nil, err
	}

	raw, ok := data["user"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, login)
	}

	var u user
	cfg := &mapstructure.DecoderConfig{
		Result:     &u,
		TagName:    "json",
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: decode user: %w", ErrUpstream, err)
	}

	snap := u.snapshot()
	c.logger.Debug("fetched github snapshot",
		zap.String("login", snap.Profile.Login),
		zap.Int("repositories", len(snap.Repositories)),
		zap.Int("pinned", len(snap.Pinned)),
		zap.Int("weeks", len(snap.Calendar.Weeks)),
	)

	return snap, nil
}

func (u *user) snapshot() *snapshot.Snapshot {
	contributions := u.ContributionsCollection

	snap := &snapshot.Snapshot{
		Profile: snapshot.Profile{
			Login:      u.Login,
			Name:       u.Name,
			AvatarURL:  u.AvatarURL,
			Bio:        u.Bio,
			Company:    u.Company,
			Location:   u.Location,
			WebsiteURL: u.WebsiteURL,
			CreatedAt:  u.CreatedAt,
		},
		Followers:       u.Followers.TotalCount,
		Following:       u.Following.TotalCount,
		PublicRepoCount: u.Repositories.TotalCount,
		Contributions: snapshot.Contributions{
			Commits:      contributions.TotalCommitContributions,
			PullRequests: contributions.TotalPullRequestContributions,
			Issues:       contributions.TotalIssueContributions,
			Repositories: contributions.TotalRepositoryContributions,
		},
		Repositories: make([]snapshot.Repository, 0, len(u.Repositories.Nodes)),
		Pinned:       make([]snapshot.Repository, 0, len(u.PinnedItems.Nodes)),
	}

	for _, node := range u.Repositories.Nodes {
		snap.Repositories = append(snap.Repositories, node.normalize())
	}
	for _, node := range u.PinnedItems.Nodes {
		// Non-repository pins decode as empty objects.
		if node.Name == "" {
			continue
		}
		snap.Pinned = append(snap.Pinned, node.normalize())
	}

	weeks := contributions.ContributionCalendar.Weeks
	snap.Calendar.Weeks = make([]snapshot.Week, 0, len(weeks))
	for _, w := range weeks {
		week := snapshot.Week{Days: make([]snapshot.Day, 0, len(w.ContributionDays))}
		for _, d := range w.ContributionDays {
			week.Days = append(week.Days, snapshot.Day{Date: d.Date, Count: d.ContributionCount})
		}
		snap.Calendar.Weeks = append(snap.Calendar.Weeks, week)
	}

	return snap
}

func (r repository) normalize() snapshot.Repository {
	out := snapshot.Repository{
		Name:        r.Name,
		Description: r.Description,
		URL:         r.URL,
		Stars:       r.StargazerCount,
		Forks:       r.ForkCount,
		Archived:    r.IsArchived,
		UpdatedAt:   r.UpdatedAt,
		PushedAt:    r.PushedAt,
		DiskUsage:   r.DiskUsage,
		Languages:   make([]snapshot.LanguageEdge, 0, len(r.Languages.Edges)),
		Flags: snapshot.RepoFeatureFlags{
			HasTests:        present(r.TestsDir) || present(r.TestDir) || present(r.SpecDir),
			HasCI:           present(r.Workflows),
			HasLinter:       present(r.Eslintrc) || present(r.Prettierrc) || present(r.Golangci),
			HasContributing: r.Contributing != nil,
			HasSrc:          present(r.SrcDir),
		},
	}

	if r.PrimaryLanguage != nil {
		out.PrimaryLanguage = snapshot.Language{Name: r.PrimaryLanguage.Name, Color: r.PrimaryLanguage.Color}
	}
	if r.Readme != nil {
		out.Readme = r.Readme.Text
	}
	if r.PackageJSON != nil {
		out.PackageManifest = r.PackageJSON.Text
	}

	for _, edge := range r.Languages.Edges {
		if edge.Size < 0 {
			continue
		}
		out.Languages = append(out.Languages, snapshot.LanguageEdge{
			Language: snapshot.Language{Name: edge.Node.Name, Color: edge.Node.Color},
			Bytes:    edge.Size,
		})
	}

	return out
}

func present(o *object) bool {
	return o != nil
}
