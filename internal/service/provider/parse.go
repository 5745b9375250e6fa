package provider

import (
	"regexp"
	"strings"

	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
)

var formulaPattern = regexp.MustCompile(`(?:公式|方程|等式)[：:]\s*([^。\n]+)`)

var subjectMarkers = []struct {
	subject string
	pattern *regexp.Regexp
}{
	{"数学", regexp.MustCompile(`数学|几何|代数|微积分|统计`)},
	{"物理", regexp.MustCompile(`物理|力学|电学|光学`)},
	{"化学", regexp.MustCompile(`化学|分子|原子|反应`)},
	{"生物", regexp.MustCompile(`生物|细胞|基因|DNA`)},
}

// ParseAnalysis extracts the structured fields from a vision provider's
// free-text answer: identified formulas, inferred subject areas, and an
// inferred difficulty. The heuristics run on keywords; a miss simply leaves
// the field empty.
func ParseAnalysis(content string) Analysis {
	analysis := Analysis{Description: content}

	for _, m := range formulaPattern.FindAllStringSubmatch(content, -1) {
		if formula := strings.TrimSpace(m[1]); formula != "" {
			analysis.Formulas = append(analysis.Formulas, formula)
		}
	}

	for _, marker := range subjectMarkers {
		if marker.pattern.MatchString(content) {
			analysis.Subjects = append(analysis.Subjects, marker.subject)
		}
	}

	switch {
	case strings.Contains(content, "基础") || strings.Contains(content, "简单") || strings.Contains(content, "入门"):
		analysis.Difficulty = knowledge.Basic
	case strings.Contains(content, "高级") || strings.Contains(content, "复杂") || strings.Contains(content, "困难"):
		analysis.Difficulty = knowledge.Advanced
	default:
		analysis.Difficulty = knowledge.Intermediate
	}

	return analysis
}
