package enrichment

import (
	"fmt"
	"strings"
)

// Kind names one type of AI judgment.
type Kind string

const (
	KindProfileAudit     Kind = "profileAudit"
	KindSWOT             Kind = "swot"
	KindRepoAudit        Kind = "repoAudit"
	KindResumeComparison Kind = "resumeComparison"
	KindRoleFit          Kind = "roleFit"
)

// Kinds returns every kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindProfileAudit, KindSWOT, KindRepoAudit, KindResumeComparison, KindRoleFit}
}

// DefaultKinds are requested when a full analysis names none.
func DefaultKinds() []Kind {
	return []Kind{KindSWOT, KindProfileAudit}
}

var kindAliases = map[string]Kind{
	"profileaudit":      KindProfileAudit,
	"profile-audit":     KindProfileAudit,
	"ai-profile":        KindProfileAudit,
	"swot":              KindSWOT,
	"repoaudit":         KindRepoAudit,
	"repo-audit":        KindRepoAudit,
	"repo":              KindRepoAudit,
	"resumecomparison":  KindResumeComparison,
	"resume-comparison": KindResumeComparison,
	"resume":            KindResumeComparison,
	"rolefit":           KindRoleFit,
	"role-fit":          KindRoleFit,
	"match-role":        KindRoleFit,
}

func ParseKind(value string) (Kind, error) {
	if kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(value))]; ok {
		return kind, nil
	}
	return "", fmt.Errorf("unknown enrichment kind %q", value)
}

// Strictness frames how demanding the role-fit judgment should be.
type Strictness string

const (
	StrictnessLenient Strictness = "lenient"
	StrictnessNormal  Strictness = "normal"
	StrictnessStrict  Strictness = "strict"
)

// ParseStrictness accepts lenient/normal/strict; an empty value means normal.
func ParseStrictness(value string) (Strictness, error) {
	switch s := Strictness(strings.ToLower(strings.TrimSpace(value))); s {
	case "":
		return StrictnessNormal, nil
	case StrictnessLenient, StrictnessNormal, StrictnessStrict:
		return s, nil
	default:
		return "", fmt.Errorf("unknown strictness %q", value)
	}
}
