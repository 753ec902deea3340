package enrichment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Score is a 0-100 rating as returned by a model. Numbers and numeric strings
// are accepted; values are rounded and clamped.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	var f float64
	switch val := v.(type) {
	case nil:
		*s = 0
		return nil
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(val), "%"), 64)
		if err != nil {
			return fmt.Errorf("score %q is not a number", val)
		}
		f = parsed
	default:
		return errors.New("score must be a number")
	}

	if math.IsNaN(f) {
		f = 0
	}
	*s = Score(math.Max(0, math.Min(100, math.Round(f))))
	return nil
}

type HiringSignals struct {
	TechnicalDepth     Score `json:"technicalDepth"`
	Collaboration      Score `json:"collaboration"`
	Documentation      Score `json:"documentation"`
	CodeQuality        Score `json:"codeQuality"`
	ArchitectureSkills Score `json:"architectureSkills"`
}

type Improvement struct {
	Action   string `json:"action"`
	Reason   string `json:"reason"`
	Priority string `json:"priority"`
}

// ProfileAudit is the engineering-manager style review of the whole profile.
type ProfileAudit struct {
	OverallScore     Score         `json:"overallScore"`
	EngineeringScore Score         `json:"engineeringScore"`
	HiringSignals    HiringSignals `json:"hiringSignals"`
	RedFlags         []string      `json:"redFlags"`
	Strengths        []string      `json:"strengths"`
	Improvements     []Improvement `json:"improvements"`
}

func (p *ProfileAudit) normalize() {
	p.RedFlags = nonNil(p.RedFlags)
	p.Strengths = nonNil(p.Strengths)
	p.Improvements = nonNil(p.Improvements)
}

type SWOT struct {
	ProfileScore        Score    `json:"profileScore"`
	ProfileTier         string   `json:"profileTier"`
	FirstImpression     string   `json:"firstImpression"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	Opportunities       []string `json:"opportunities"`
	Threats             []string `json:"threats"`
	CodeQuality         string   `json:"codeQuality"`
	DocumentationHabits string   `json:"documentationHabits"`
	CareerTrajectory    string   `json:"careerTrajectory"`
	InterviewReadiness  string   `json:"interviewReadiness"`
}

func (s *SWOT) normalize() {
	s.Strengths = nonNil(s.Strengths)
	s.Weaknesses = nonNil(s.Weaknesses)
	s.Opportunities = nonNil(s.Opportunities)
	s.Threats = nonNil(s.Threats)
}

type ChecklistItem struct {
	Item     string `json:"item"`
	Found    bool   `json:"found"`
	Priority string `json:"priority"`
	Detail   string `json:"detail"`
}

type RepoAudit struct {
	Repo                string          `json:"repo"`
	Grade               string          `json:"grade"`
	Summary             string          `json:"summary"`
	GradeExplanation    string          `json:"gradeExplanation"`
	TechnicalDebt       string          `json:"technicalDebt"`
	ProductionReadiness string          `json:"productionReadiness"`
	Checklist           []ChecklistItem `json:"checklist"`
	Recommendations     []string        `json:"recommendations"`
}

func (r *RepoAudit) normalize() {
	r.Checklist = nonNil(r.Checklist)
	r.Recommendations = nonNil(r.Recommendations)
}

type Claim struct {
	Claim    string `json:"claim"`
	Status   string `json:"status"`
	Evidence string `json:"evidence"`
}

// ResumeComparison cross-checks resume claims against public activity.
type ResumeComparison struct {
	TrustScore    Score    `json:"trustScore"`
	Verdict       string   `json:"verdict"`
	Summary       string   `json:"summary"`
	Claims        []Claim  `json:"claims"`
	MissingSkills []string `json:"missingSkills"`
}

func (r *ResumeComparison) normalize() {
	r.Claims = nonNil(r.Claims)
	r.MissingSkills = nonNil(r.MissingSkills)
}

type RoleFit struct {
	FitScore          Score    `json:"fitScore"`
	FitTier           string   `json:"fitTier"`
	Analysis          string   `json:"analysis"`
	Strengths         []string `json:"strengths"`
	Gaps              []string `json:"gaps"`
	InterviewQuestion string   `json:"interviewQuestion"`
}

func (r *RoleFit) normalize() {
	r.Strengths = nonNil(r.Strengths)
	r.Gaps = nonNil(r.Gaps)
}

type normalizer[T any] interface {
	*T
	normalize()
}

func decodeAs[T any, P normalizer[T]](raw json.RawMessage) (*T, error) {
	value := new(T)
	if err := json.Unmarshal(raw, value); err != nil {
		return nil, err
	}
	P(value).normalize()
	return value, nil
}

// decode turns a provider answer into the typed result of the request's kind.
func decode(req Request, raw json.RawMessage) (any, error) {
	switch req.Kind {
	case KindProfileAudit:
		return decodeAs[ProfileAudit](raw)
	case KindSWOT:
		return decodeAs[SWOT](raw)
	case KindRepoAudit:
		audit, err := decodeAs[RepoAudit](raw)
		if err != nil {
			return nil, err
		}
		if audit.Repo == "" {
			audit.Repo = req.RepoName
		}
		return audit, nil
	case KindResumeComparison:
		return decodeAs[ResumeComparison](raw)
	case KindRoleFit:
		return decodeAs[RoleFit](raw)
	default:
		return nil, fmt.Errorf("unknown enrichment kind %q", req.Kind)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
