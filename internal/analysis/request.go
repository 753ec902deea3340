package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/hireability/internal/enrichment"
	"github.com/spigell/hireability/internal/scoring"
)

var ErrInvalidRequest = errors.New("invalid analysis request")

// Request is what a caller asks for. Fields are raw strings so that the same
// validation serves the HTTP and the CLI surfaces.
type Request struct {
	Login      string         `json:"username"`
	Difficulty string         `json:"difficulty"`
	Strictness string         `json:"strictness"`
	Kinds      []string       `json:"kinds"`
	RepoName   string         `json:"repoName"`
	ResumeText string         `json:"resumeText"`
	Job        enrichment.Job `json:"job"`
}

// plan is a validated Request.
type plan struct {
	login      string
	difficulty scoring.Difficulty
	strictness enrichment.Strictness
	kinds      []enrichment.Kind
	options    enrichment.Options
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func (s *Service) validate(req Request, only ...enrichment.Kind) (plan, error) {
	p := plan{login: strings.TrimSpace(req.Login)}
	if p.login == "" {
		return plan{}, invalid("username is required")
	}

	var err error
	difficulty := req.Difficulty
	if strings.TrimSpace(difficulty) == "" {
		difficulty = string(s.difficulty)
	}
	if p.difficulty, err = scoring.ParseDifficulty(difficulty); err != nil {
		return plan{}, invalid("%v", err)
	}

	strictness := req.Strictness
	if strings.TrimSpace(strictness) == "" {
		strictness = string(s.strictness)
	}
	if p.strictness, err = enrichment.ParseStrictness(strictness); err != nil {
		return plan{}, invalid("%v", err)
	}

	switch {
	case len(only) > 0:
		p.kinds = only
	case len(req.Kinds) > 0:
		seen := make(map[enrichment.Kind]struct{}, len(req.Kinds))
		for _, raw := range req.Kinds {
			kind, err := enrichment.ParseKind(raw)
			if err != nil {
				return plan{}, invalid("%v", err)
			}
			if _, ok := seen[kind]; ok {
				continue
			}
			seen[kind] = struct{}{}
			p.kinds = append(p.kinds, kind)
		}
	default:
		p.kinds = append([]enrichment.Kind(nil), s.kinds...)
	}

	p.options = enrichment.Options{
		Strictness: p.strictness,
		RepoName:   strings.TrimSpace(req.RepoName),
		ResumeText: req.ResumeText,
		Job:        req.Job,
	}

	for _, kind := range p.kinds {
		switch kind {
		case enrichment.KindRepoAudit:
			if p.options.RepoName == "" {
				return plan{}, invalid("repoName is required for %s", kind)
			}
		case enrichment.KindResumeComparison:
			if strings.TrimSpace(req.ResumeText) == "" {
				return plan{}, invalid("resumeText is required for %s", kind)
			}
		case enrichment.KindRoleFit:
			if strings.TrimSpace(req.Job.Role) == "" {
				return plan{}, invalid("job.jobRole is required for %s", kind)
			}
		}
	}

	return p, nil
}

func (p plan) wants(kind enrichment.Kind) bool {
	for _, k := range p.kinds {
		if k == kind {
			return true
		}
	}
	return false
}
