package metrics

import (
	"strings"
	"unicode/utf8"
)

const (
	readmeMinLength    = 20
	readmeLongLength   = 1000
	readmeMediumLength = 500
	readmeSectionBonus = 15
	readmeHealthyScore = 50

	readmeMissingFeedback = "No README found. Add one to explain your project."
)

type readmeSection struct {
	name     string
	keywords []string
}

var readmeSections = []readmeSection{
	{name: "Installation", keywords: []string{"install", "setup", "getting started"}},
	{name: "Usage", keywords: []string{"usage", "how to", "example"}},
	{name: "Contributing", keywords: []string{"contribut", "development"}},
	{name: "License", keywords: []string{"license", "copyright"}},
}

// ReadmeScore is the documentation score of a single README.
type ReadmeScore struct {
	Score    int      `json:"score"`
	Feedback string   `json:"feedback"`
	Missing  []string `json:"missingSections"`
}

// ScoreReadme awards up to 40 points for length and 15 per recognised section.
func ScoreReadme(text string) ReadmeScore {
	text = strings.TrimSpace(text)
	length := utf8.RuneCountInString(text)
	if length < readmeMinLength {
		return ReadmeScore{
			Feedback: readmeMissingFeedback,
			Missing:  sectionNames(),
		}
	}

	score := 10
	switch {
	case length > readmeLongLength:
		score = 40
	case length > readmeMediumLength:
		score = 20
	}

	lower := strings.ToLower(text)
	missing := []string{}
	for _, section := range readmeSections {
		if containsAny(lower, section.keywords) {
			score += readmeSectionBonus
			continue
		}
		missing = append(missing, section.name)
	}

	feedback := "Great README!"
	if score < readmeHealthyScore {
		feedback = "README is too short or missing key sections."
	}
	if len(missing) > 0 {
		feedback = "Consider adding sections: " + strings.Join(missing, ", ") + "."
	}

	return ReadmeScore{Score: score, Feedback: feedback, Missing: missing}
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func sectionNames() []string {
	names := make([]string, 0, len(readmeSections))
	for _, section := range readmeSections {
		names = append(names, section.name)
	}
	return names
}
