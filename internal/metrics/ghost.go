package metrics

import "math"

const ghostWarningRatio = 40

// nonLogicLanguages are markup, config and build-script languages.
var nonLogicLanguages = map[string]struct{}{
	"JSON":       {},
	"YAML":       {},
	"TOML":       {},
	"XML":        {},
	"Markdown":   {},
	"Text":       {},
	"INI":        {},
	"Dockerfile": {},
	"Shell":      {},
	"Batchfile":  {},
	"Makefile":   {},
	"CMake":      {},
}

// GhostReport measures how much of the byte volume is non-logic content.
type GhostReport struct {
	ConfigBytes int64 `json:"configBytes"`
	CodeBytes   int64 `json:"codeBytes"`
	TotalBytes  int64 `json:"totalBytes"`
	Ratio       int   `json:"ghostRatio"`
	Warning     bool  `json:"isWarning"`
}

// IsNonLogic reports whether the language counts as ghost code.
func IsNonLogic(language string) bool {
	_, ok := nonLogicLanguages[language]
	return ok
}

func Ghost(profile LanguageProfile) GhostReport {
	var report GhostReport
	for _, share := range profile {
		report.TotalBytes += share.Bytes
		if IsNonLogic(share.Name) {
			report.ConfigBytes += share.Bytes
		}
	}
	report.CodeBytes = report.TotalBytes - report.ConfigBytes

	if report.TotalBytes > 0 {
		report.Ratio = int(math.Round(float64(report.ConfigBytes) / float64(report.TotalBytes) * 100))
	}
	report.Warning = report.Ratio > ghostWarningRatio

	return report
}
