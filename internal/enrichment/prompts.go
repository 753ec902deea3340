package enrichment

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "embed"

	"github.com/spigell/hireability/internal/ai"
	"github.com/spigell/hireability/internal/metrics"
	"github.com/spigell/hireability/internal/snapshot"
	"github.com/spigell/hireability/internal/utils"
)

//go:embed prompts/profile_audit.md
var profileAuditTemplate string

//go:embed prompts/swot.md
var swotTemplate string

//go:embed prompts/repo_audit.md
var repoAuditTemplate string

//go:embed prompts/resume_comparison.md
var resumeComparisonTemplate string

//go:embed prompts/role_fit.md
var roleFitTemplate string

const (
	summaryRepoLimit    = 6
	descriptionLimit    = 150
	readmeLimit         = 2000
	manifestLimit       = 2000
	resumeLimit         = 2000
	profileSummaryLimit = 3000
	topLanguageCount    = 5
	resumeRepoLimit     = 10
	dateLayout          = "2006-01-02"
)

var (
	ErrUnknownRepo  = errors.New("repository is not part of the snapshot")
	ErrMissingInput = errors.New("enrichment input is missing")
)

// Job describes the position a role-fit judgment is made against.
type Job struct {
	Company    string `json:"company"`
	Role       string `json:"jobRole"`
	Experience string `json:"experience"`
	Stack      string `json:"stack"`
}

// Subject is everything a prompt may project from.
type Subject struct {
	Snapshot *snapshot.Snapshot
	Analysis metrics.Analysis
}

type Options struct {
	Strictness Strictness
	RepoName   string
	ResumeText string
	Job        Job
}

// Request is one enrichment call ready to be sent to a provider.
type Request struct {
	Kind     Kind
	Prompt   ai.Prompt
	RepoName string
}

// StubInput returns what the stub of this request echoes back.
func (r Request) StubInput() StubInput {
	return StubInput{RepoName: r.RepoName}
}

// BuildRequest projects the subject into the token-bounded prompt of one kind.
func BuildRequest(kind Kind, subject Subject, opts Options) (Request, error) {
	if subject.Snapshot == nil {
		return Request{}, fmt.Errorf("%w: snapshot", ErrMissingInput)
	}

	req := Request{Kind: kind, RepoName: opts.RepoName}

	switch kind {
	case KindProfileAudit:
		req.Prompt = ai.Prompt{System: profileAuditTemplate, Input: summarize(subject.Snapshot)}
	case KindSWOT:
		req.Prompt = ai.Prompt{System: swotTemplate, Input: swotPayload(subject)}
	case KindRepoAudit:
		repo, ok := subject.Snapshot.FindRepository(opts.RepoName)
		if !ok {
			return Request{}, fmt.Errorf("%w: %q", ErrUnknownRepo, opts.RepoName)
		}
		req.RepoName = repo.Name
		req.Prompt = ai.Prompt{System: repoAuditTemplate, Input: repoFacts(repo)}
	case KindResumeComparison:
		if strings.TrimSpace(opts.ResumeText) == "" {
			return Request{}, fmt.Errorf("%w: resume text", ErrMissingInput)
		}
		input, err := resumePayload(opts.ResumeText, subject)
		if err != nil {
			return Request{}, err
		}
		req.Prompt = ai.Prompt{System: resumeComparisonTemplate, Input: input}
	case KindRoleFit:
		if strings.TrimSpace(opts.Job.Role) == "" {
			return Request{}, fmt.Errorf("%w: job role", ErrMissingInput)
		}
		profile, err := candidateSummary(subject)
		if err != nil {
			return Request{}, err
		}
		req.Prompt = ai.Prompt{
			System: roleFitPrompt(opts.Job, opts.Strictness),
			Input:  "Candidate Profile Summary:\n" + profile,
		}
	default:
		return Request{}, fmt.Errorf("unknown enrichment kind %q", kind)
	}

	req.Prompt.Kind = string(kind)
	return req, nil
}

type profileSummary struct {
	Username        string            `json:"username"`
	Bio             string            `json:"bio"`
	Followers       int               `json:"followers"`
	TotalRepos      int               `json:"totalRepos"`
	CreatedAt       string            `json:"createdAt"`
	Contributions   contributionStats `json:"contributions"`
	TopRepositories []repoSummary     `json:"topRepositories"`
	PinnedItems     []pinnedSummary   `json:"pinnedItems"`
}

type contributionStats struct {
	TotalCommits int `json:"totalCommits"`
	TotalPRs     int `json:"totalPRs"`
	TotalIssues  int `json:"totalIssues"`
}

type repoSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Language    string `json:"language,omitempty"`
	Updated     string `json:"updated,omitempty"`
}

type pinnedSummary struct {
	Name     string `json:"name"`
	Stars    int    `json:"stars"`
	Language string `json:"language,omitempty"`
}

func summarize(snap *snapshot.Snapshot) profileSummary {
	repos := append([]snapshot.Repository(nil), snap.Repositories...)
	sort.SliceStable(repos, func(i, j int) bool { return repos[i].Stars > repos[j].Stars })
	if len(repos) > summaryRepoLimit {
		repos = repos[:summaryRepoLimit]
	}

	top := make([]repoSummary, 0, len(repos))
	for _, r := range repos {
		top = append(top, repoSummary{
			Name:        r.Name,
			Description: utils.Truncate(r.Description, descriptionLimit),
			Stars:       r.Stars,
			Language:    r.PrimaryLanguage.Name,
			Updated:     dateOnly(r.UpdatedAt),
		})
	}

	pinned := make([]pinnedSummary, 0, len(snap.Pinned))
	for _, r := range snap.Pinned {
		pinned = append(pinned, pinnedSummary{Name: r.Name, Stars: r.Stars, Language: r.PrimaryLanguage.Name})
	}

	totalRepos := snap.PublicRepoCount
	if totalRepos == 0 {
		totalRepos = len(snap.Repositories)
	}

	return profileSummary{
		Username:   snap.Profile.Login,
		Bio:        snap.Profile.Bio,
		Followers:  snap.Followers,
		TotalRepos: totalRepos,
		CreatedAt:  dateOnly(snap.Profile.CreatedAt),
		Contributions: contributionStats{
			TotalCommits: snap.Contributions.Commits,
			TotalPRs:     snap.Contributions.PullRequests,
			TotalIssues:  snap.Contributions.Issues,
		},
		TopRepositories: top,
		PinnedItems:     pinned,
	}
}

func dateOnly(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

type swotInput struct {
	profileSummary
	Name             string   `json:"name,omitempty"`
	TopLanguages     []string `json:"topLanguages"`
	TotalStars       int      `json:"totalStars"`
	ConsistencyScore int      `json:"consistencyScore"`
	AccountAge       float64  `json:"accountAge"`
}

func swotPayload(subject Subject) swotInput {
	return swotInput{
		profileSummary:   summarize(subject.Snapshot),
		Name:             subject.Snapshot.Profile.Name,
		TopLanguages:     subject.Analysis.Languages.Top(topLanguageCount).Names(),
		TotalStars:       subject.Analysis.TotalStars,
		ConsistencyScore: subject.Analysis.Bundle.Consistency,
		AccountAge:       subject.Analysis.Bundle.AccountAgeYears,
	}
}

type repoInput struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Readme          *string  `json:"readme"`
	PackageJSON     *string  `json:"packageJson"`
	PrimaryLanguage string   `json:"primaryLanguage,omitempty"`
	Languages       []string `json:"languages"`
	Stars           int      `json:"stars"`
	Forks           int      `json:"forks"`
	DiskUsageKB     int      `json:"diskUsageKb"`
	snapshot.RepoFeatureFlags
}

func repoFacts(repo snapshot.Repository) repoInput {
	languages := make([]string, 0, len(repo.Languages))
	for _, edge := range repo.Languages {
		languages = append(languages, edge.Name)
	}

	return repoInput{
		Name:             repo.Name,
		Description:      repo.Description,
		Readme:           optionalText(repo.Readme, readmeLimit),
		PackageJSON:      optionalText(repo.PackageManifest, manifestLimit),
		PrimaryLanguage:  repo.PrimaryLanguage.Name,
		Languages:        languages,
		Stars:            repo.Stars,
		Forks:            repo.Forks,
		DiskUsageKB:      repo.DiskUsage,
		RepoFeatureFlags: repo.Flags,
	}
}

func optionalText(text string, limit int) *string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	truncated := utils.Truncate(text, limit)
	return &truncated
}

type candidate struct {
	Name         string        `json:"name,omitempty"`
	Bio          string        `json:"bio"`
	TopLanguages []string      `json:"topLanguages"`
	PrimaryStack string        `json:"primaryStack"`
	Repos        []repoSummary `json:"repos"`
	TotalRepos   int           `json:"totalRepos"`
	Followers    int           `json:"followers"`
}

// candidateSummary is the compact profile shared by the resume and role-fit
// prompts, serialized and cut to profileSummaryLimit runes.
func candidateSummary(subject Subject) (string, error) {
	snap := subject.Snapshot

	repos := snap.Repositories
	if len(repos) > resumeRepoLimit {
		repos = repos[:resumeRepoLimit]
	}
	summaries := make([]repoSummary, 0, len(repos))
	for _, r := range repos {
		summaries = append(summaries, repoSummary{
			Name:        r.Name,
			Description: utils.Truncate(r.Description, descriptionLimit),
			Stars:       r.Stars,
			Language:    r.PrimaryLanguage.Name,
		})
	}

	body, err := json.Marshal(candidate{
		Name:         snap.Profile.Name,
		Bio:          snap.Profile.Bio,
		TopLanguages: subject.Analysis.Languages.Top(topLanguageCount).Names(),
		PrimaryStack: subject.Analysis.PrimaryStack,
		Repos:        summaries,
		TotalRepos:   len(snap.Repositories),
		Followers:    snap.Followers,
	})
	if err != nil {
		return "", fmt.Errorf("marshal candidate summary: %w", err)
	}

	return utils.Truncate(string(body), profileSummaryLimit), nil
}

func resumePayload(resume string, subject Subject) (string, error) {
	profile, err := candidateSummary(subject)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Resume:\n")
	b.WriteString(utils.Truncate(strings.TrimSpace(resume), resumeLimit))
	b.WriteString("\n\nGitHub Profile:\n")
	b.WriteString(profile)
	return b.String(), nil
}

func strictnessFraming(s Strictness) string {
	switch s {
	case StrictnessLenient:
		return "Be optimistic and look for potential. Highlight transferable skills even if not exact matches."
	case StrictnessStrict:
		return "Be extremely critical. Only accept exact matches. Highlight every gap ruthlessly."
	default:
		return "Be balanced. Acknowledge strengths but point out realistic gaps."
	}
}

func roleFitPrompt(job Job, strictness Strictness) string {
	if strictness == "" {
		strictness = StrictnessNormal
	}

	company := strings.TrimSpace(job.Company)
	if company == "" {
		company = "a Tech Company"
	}
	experience := strings.TrimSpace(job.Experience)
	if experience == "" {
		experience = "any level"
	}
	stack := strings.TrimSpace(job.Stack)
	if stack == "" {
		stack = "not specified"
	}

	replacer := strings.NewReplacer(
		"{{COMPANY}}", company,
		"{{FRAMING}}", strictnessFraming(strictness),
		"{{ROLE}}", strings.TrimSpace(job.Role),
		"{{EXPERIENCE}}", experience,
		"{{STACK}}", stack,
		"{{STRICTNESS}}", string(strictness),
	)
	return replacer.Replace(roleFitTemplate)
}
