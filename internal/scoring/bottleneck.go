package scoring

// Rule pairs a predicate over the adjusted components with the message shown
// when it is the first rule to match.
type Rule struct {
	Name    string
	When    func(Components) bool
	Message string
}

func below(threshold int, pick func(Components) int) func(Components) bool {
	return func(c Components) bool { return pick(c) < threshold }
}

func always(Components) bool { return true }

func consistency(c Components) int { return c.Consistency }
func complexity(c Components) int  { return c.Complexity }
func impact(c Components) int      { return c.Impact }

// SeniorRules are evaluated top to bottom; the last rule always matches.
var SeniorRules = []Rule{
	{
		Name:    "complexity<40",
		When:    below(40, complexity),
		Message: "Code complexity is low. Add projects with design patterns, testing, and CI/CD to demonstrate architecture skills.",
	},
	{
		Name:    "consistency<40",
		When:    below(40, consistency),
		Message: "Commit consistency is weak. Large gaps signal unreliability. Aim for steady weekly contributions.",
	},
	{
		Name:    "impact<40",
		When:    below(40, impact),
		Message: "Community impact is minimal. Grow stars, contribute to popular repos, and publish packages.",
	},
	{
		Name:    "complexity<60",
		When:    below(60, complexity),
		Message: "Projects lack depth. Add larger systems with multiple layers (API, DB, auth, deployment).",
	},
	{
		Name:    "consistency<60",
		When:    below(60, consistency),
		Message: "Activity is sporadic. Maintain a consistent 3-4 day/week cadence to stand out.",
	},
	{
		Name:    "competitive",
		When:    always,
		Message: "Profile is competitive. Focus on polishing top repos with documentation and demos.",
	},
}

// JuniorRules use more lenient cut points than SeniorRules.
var JuniorRules = []Rule{
	{
		Name:    "complexity<30",
		When:    below(30, complexity),
		Message: "Projects are too simple. Build at least one full-stack app with auth, DB, and deployment.",
	},
	{
		Name:    "consistency<30",
		When:    below(30, consistency),
		Message: "Very inconsistent activity. Hiring managers check for learning momentum. Commit at least 3 times a week.",
	},
	{
		Name:    "impact<20",
		When:    below(20, impact),
		Message: "No community presence. Star other repos, open issues, and contribute small PRs to grow visibility.",
	},
	{
		Name:    "consistency<50",
		When:    below(50, consistency),
		Message: "Build consistency. Junior roles value learning trajectory over expertise.",
	},
	{
		Name:    "competitive",
		When:    always,
		Message: "Solid junior profile. Add a deployed project with a live demo link to stand out.",
	},
}

// Diagnose returns the message of the first matching rule, or an empty string
// when no rule matches.
func Diagnose(rules []Rule, c Components) string {
	for _, rule := range rules {
		if rule.When != nil && rule.When(c) {
			return rule.Message
		}
	}
	return ""
}
