package analyzer

import (
	"regexp"
	"strings"
)

const (
	longSentenceChars = 50
	diversityFloor    = 0.7
	lowScoreThreshold = 0.7
)

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// QualityAnalyzer scores a prompt across clarity, specificity, consistency,
// and completeness. Scores come from surface statistics and indicator-phrase
// tables, deterministically; there is no model behind them.
type QualityAnalyzer struct {
	Indicators Indicators
}

// NewQualityAnalyzer returns an analyzer with the default indicator tables.
func NewQualityAnalyzer() *QualityAnalyzer {
	return &QualityAnalyzer{Indicators: DefaultIndicators()}
}

// Analyze computes the four dimension scores and improvement suggestions.
// Degenerate input never errors; it yields floor scores.
func (a *QualityAnalyzer) Analyze(prompt string) QualityMetrics {
	ind := DefaultIndicators()
	if a != nil {
		ind = a.Indicators.merged()
	}

	lower := strings.ToLower(prompt)
	words := strings.Fields(prompt)
	sentences := splitSentences(prompt)

	m := QualityMetrics{
		Clarity:      clarityScore(lower, sentences, ind),
		Specificity:  specificityScore(lower, words, ind),
		Consistency:  consistencyScore(lower, sentences, ind),
		Completeness: completenessScore(lower, ind),
	}

	if m.Clarity < lowScoreThreshold {
		m.Suggestions = append(m.Suggestions, "Improve clarity by using more specific terms and shorter sentences")
	}
	if m.Specificity < lowScoreThreshold {
		m.Suggestions = append(m.Suggestions, "Add concrete examples or constraints to make the prompt more specific")
	}
	if m.Consistency < lowScoreThreshold {
		m.Suggestions = append(m.Suggestions, "Use sequencing words (first, then, finally) to keep multi-step prompts consistent")
	}
	if m.Completeness < lowScoreThreshold {
		m.Suggestions = append(m.Suggestions, "State the task and the expected output explicitly to make the prompt complete")
	}

	return m
}

func splitSentences(prompt string) []string {
	var out []string
	for _, s := range sentenceSplitRe.Split(prompt, -1) {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// countIndicators counts how many distinct indicator phrases appear.
func countIndicators(lower string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			n++
		}
	}
	return n
}

func clarityScore(lower string, sentences []string, ind Indicators) float64 {
	if len(sentences) == 0 {
		return 0
	}

	total := 0
	for _, s := range sentences {
		total += len(strings.TrimSpace(s))
	}
	// Long sentences penalize clarity regardless of indicator phrases.
	if float64(total)/float64(len(sentences)) > longSentenceChars {
		return 0.3
	}

	if n := countIndicators(lower, ind.Clarity); n > 0 {
		return clamp01(0.7 + 0.1*float64(n))
	}
	return 0.5
}

func specificityScore(lower string, words []string, ind Indicators) float64 {
	if len(words) == 0 {
		return 0
	}

	if n := countIndicators(lower, ind.Specificity); n > 0 {
		return clamp01(0.6 + 0.1*float64(n))
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	if float64(len(unique))/float64(len(words)) > diversityFloor {
		return 0.5
	}
	return 0.3
}

func consistencyScore(lower string, sentences []string, ind Indicators) float64 {
	if len(sentences) == 0 {
		return 0
	}
	// A single sentence is trivially consistent.
	if len(sentences) == 1 {
		return 1.0
	}

	if n := countIndicators(lower, ind.Consistency); n > 0 {
		return clamp01(0.7 + 0.1*float64(n))
	}
	return 0.5
}

func completenessScore(lower string, ind Indicators) float64 {
	if countIndicators(lower, ind.TaskMarkers) == 0 {
		return 0.3
	}
	if countIndicators(lower, ind.OutputMarkers) == 0 {
		return 0.5
	}
	if n := countIndicators(lower, ind.Completeness); n > 0 {
		return clamp01(0.7 + 0.1*float64(n))
	}
	return 0.6
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
