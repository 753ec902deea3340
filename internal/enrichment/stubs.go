package enrichment

// StubInput carries the request details a stub echoes back.
type StubInput struct {
	RepoName string
}

// Stub returns the static stand-in used when no provider produced a result.
// Each call builds a fresh value.
func Stub(kind Kind, in StubInput) any {
	switch kind {
	case KindProfileAudit:
		return stubProfileAudit()
	case KindSWOT:
		return stubSWOT()
	case KindRepoAudit:
		return stubRepoAudit(in.RepoName)
	case KindResumeComparison:
		return stubResumeComparison()
	case KindRoleFit:
		return stubRoleFit()
	default:
		return nil
	}
}

func stubProfileAudit() *ProfileAudit {
	return &ProfileAudit{
		OverallScore:     65,
		EngineeringScore: 65,
		HiringSignals: HiringSignals{
			TechnicalDepth:     72,
			Collaboration:      40,
			Documentation:      55,
			CodeQuality:        68,
			ArchitectureSkills: 60,
		},
		RedFlags: []string{
			"Low commit consistency in last 3 months",
			"Lack of unit tests in major repositories",
			"Most projects are single-contributor (low collaboration)",
		},
		Strengths: []string{
			"Strong grasp of JavaScript/TypeScript ecosystem",
			"Good usage of modern frameworks (Next.js, React)",
			"Clear project naming conventions",
		},
		Improvements: []Improvement{
			{Action: "Add CI/CD pipelines", Reason: "Shows production-readiness", Priority: "high"},
			{Action: "Contribute to open source", Reason: "Validates collaboration skills", Priority: "medium"},
			{Action: "Write comprehensive READMEs", Reason: "Critical for documentation skills", Priority: "critical"},
			{Action: "Add unit tests (Jest/Vitest)", Reason: "Demonstrates code reliability", Priority: "high"},
			{Action: "Refactor monolithic components", Reason: "Shows architectural maturity", Priority: "medium"},
		},
	}
}

func stubSWOT() *SWOT {
	return &SWOT{
		ProfileScore:    65,
		ProfileTier:     "Promising",
		FirstImpression: "A solid frontend developer with potential, but lacks depth in backend/DevOps.",
		Strengths:       []string{"Clean code style", "Modern stack usage", "Good project variety"},
		Weaknesses:      []string{"Inconsistent contribution graph", "Lack of testing suites", "Minimal documentation"},
		Opportunities: []string{
			"Could easily transition to Full Stack with more backend projects",
			"Open source contributions would boost visibility",
		},
		Threats: []string{
			"AI tools might automate simple frontend tasks shown here",
			"Lack of complex architectural patterns",
		},
		CodeQuality:         "Code is readable and modern but lacks complexity.",
		DocumentationHabits: "READMEs are often present but sparse on details.",
		CareerTrajectory:    "Steady growth in frontend, ready for junior-mid level roles.",
		InterviewReadiness:  "Good for coding interviews, might struggle with system design.",
	}
}

func stubRepoAudit(repo string) *RepoAudit {
	if repo == "" {
		repo = "Unknown Repo"
	}
	return &RepoAudit{
		Repo:                repo,
		Grade:               "B-",
		Summary:             "A decent project with good structure but lacking in testing and documentation.",
		GradeExplanation:    "Points deducted for missing tests and minimal README.",
		TechnicalDebt:       "Low technical debt, code is relatively fresh and clean.",
		ProductionReadiness: "Not production ready. Missing CI/CD and tests.",
		Checklist: []ChecklistItem{
			{Item: "README.md exists", Found: true, Priority: "critical", Detail: "Found, but could be more detailed."},
			{Item: "Unit Tests", Found: false, Priority: "critical", Detail: "No test runner configured (Jest/Vitest)."},
			{Item: "CI/CD Pipeline", Found: false, Priority: "high", Detail: "No .github/workflows detected."},
			{Item: "License File", Found: true, Priority: "medium", Detail: "MIT License found."},
			{Item: "Code Comments", Found: true, Priority: "medium", Detail: "Code is reasonably commented."},
			{Item: "Dependency Lockfile", Found: true, Priority: "high", Detail: "package-lock.json present."},
			{Item: "Linter Config", Found: false, Priority: "medium", Detail: "No .eslintrc found."},
			{Item: "Docker/Container", Found: false, Priority: "low", Detail: "No Dockerfile found."},
		},
		Recommendations: []string{
			"Add a test suite (Jest or Vitest) to verify core logic.",
			"Set up a basic GitHub Action for linting and testing.",
			"Expand the README to include setup instructions and architectural overview.",
		},
	}
}

func stubResumeComparison() *ResumeComparison {
	return &ResumeComparison{
		TrustScore: 78,
		Verdict:    "Strong Match",
		Summary:    "Candidate's GitHub generally supports resume claims, though some listed frameworks like Docker show little public activity.",
		Claims: []Claim{
			{Claim: "Senior React Developer", Status: "Verified", Evidence: "high volume of complex React commits"},
			{Claim: "DevOps / AWS", Status: "Missing", Evidence: "No Terraform or AWS config files found in public repos"},
		},
		MissingSkills: []string{},
	}
}

func stubRoleFit() *RoleFit {
	return &RoleFit{
		FitScore:          75,
		FitTier:           "High Potential",
		Analysis:          "Candidate has strong general skills but lacks specific experience in the required stack.",
		Strengths:         []string{"JavaScript", "General Engineering"},
		Gaps:              []string{"Specific Stack Tools", "Years of Experience"},
		InterviewQuestion: "How would you handle scaling a service to 1M users?",
	}
}
