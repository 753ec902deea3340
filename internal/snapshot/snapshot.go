package snapshot

import "time"

// Snapshot is a normalized, point-in-time read of a developer's public activity.
// It is the only input of the deterministic metrics and is never mutated after
// the platform client builds it.
type Snapshot struct {
	Profile         Profile
	Followers       int
	Following       int
	PublicRepoCount int
	Contributions   Contributions
	Repositories    []Repository
	Pinned          []Repository
	Calendar        Calendar
}

type Profile struct {
	Login      string    `json:"login"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatarUrl"`
	Bio        string    `json:"bio"`
	Company    string    `json:"company"`
	Location   string    `json:"location"`
	WebsiteURL string    `json:"websiteUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Contributions struct {
	Commits      int
	PullRequests int
	Issues       int
	Repositories int
}

type Repository struct {
	Name            string
	Description     string
	URL             string
	Stars           int
	Forks           int
	Archived        bool
	PrimaryLanguage Language
	// Languages are ordered by size as reported by the platform.
	Languages       []LanguageEdge
	UpdatedAt       time.Time
	PushedAt        time.Time
	DiskUsage       int
	Readme          string
	PackageManifest string
	Flags           RepoFeatureFlags
}

type Language struct {
	Name  string
	Color string
}

type LanguageEdge struct {
	Language
	Bytes int64
}

// RepoFeatureFlags records which project markers exist at the default branch head.
type RepoFeatureFlags struct {
	HasTests        bool `json:"hasTests"`
	HasCI           bool `json:"hasCI"`
	HasLinter       bool `json:"hasLinter"`
	HasContributing bool `json:"hasContributing"`
	HasSrc          bool `json:"hasSrc"`
}

type Calendar struct {
	Weeks []Week
}

type Week struct {
	Days []Day
}

type Day struct {
	Date  string
	Count int
}

// FindRepository returns the repository with the exact name.
func (s *Snapshot) FindRepository(name string) (Repository, bool) {
	if s == nil {
		return Repository{}, false
	}
	for _, repo := range s.Repositories {
		if repo.Name == name {
			return repo, true
		}
	}
	return Repository{}, false
}

// Showcase returns the pinned repositories, or the first limit repositories
// when nothing is pinned.
func (s *Snapshot) Showcase(limit int) []Repository {
	if s == nil {
		return nil
	}
	if len(s.Pinned) > 0 {
		return s.Pinned
	}
	if limit > len(s.Repositories) {
		limit = len(s.Repositories)
	}
	return s.Repositories[:limit]
}
