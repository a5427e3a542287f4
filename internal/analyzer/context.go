package analyzer

import (
	"strings"

	"github.com/stellarlinkco/prompt-lens/internal/modeltier"
)

const (
	neutralScore    = 0.5
	noMatchScore    = 0.3
	longPromptChars = 1000
)

// DomainTermsKey is the context-map entry holding comma-separated domain
// vocabulary.
const DomainTermsKey = "domain_terms"

// ContextAnalyzer scores how well a prompt aligns with caller-supplied
// context: domain vocabulary, the task description, and the target model's
// tier. GeneralMatch, when set, reports whether any registered
// general-category pattern matches the prompt for a model; it typically wraps
// the pattern store.
type ContextAnalyzer struct {
	Tiers        *modeltier.Table
	GeneralMatch func(prompt, modelID string) bool
}

// Analyze computes the four alignment scores. Empty reference inputs yield
// the 0.5 neutral score, since no claim can be made either way.
func (a *ContextAnalyzer) Analyze(prompt string, contextMap map[string]string, taskDescription, modelID string) ContextMetrics {
	lower := strings.ToLower(prompt)

	var domainTerms []string
	if contextMap != nil {
		for _, t := range strings.Split(contextMap[DomainTermsKey], ",") {
			if t = strings.TrimSpace(t); t != "" {
				domainTerms = append(domainTerms, t)
			}
		}
	}

	var contextTerms []string
	for _, v := range contextMap {
		contextTerms = append(contextTerms, strings.Fields(v)...)
	}

	return ContextMetrics{
		DomainRelevance:    overlapScore(lower, domainTerms),
		TaskAlignment:      overlapScore(lower, strings.Fields(taskDescription)),
		ContextAwareness:   overlapScore(lower, contextTerms),
		ModelCompatibility: a.modelCompatibility(prompt, modelID),
	}
}

// overlapScore counts reference terms appearing in the prompt: no references
// is neutral (0.5), zero matches scores 0.3, and each match adds 0.1 on top
// of 0.5, capped at 1.0.
func overlapScore(lowerPrompt string, refs []string) float64 {
	if len(refs) == 0 {
		return neutralScore
	}

	matches := 0
	for _, ref := range refs {
		ref = strings.ToLower(strings.TrimSpace(ref))
		if ref != "" && strings.Contains(lowerPrompt, ref) {
			matches++
		}
	}
	if matches == 0 {
		return noMatchScore
	}
	return clamp01(neutralScore + 0.1*float64(matches))
}

// modelCompatibility is a length/tier heuristic: a prompt already covered by
// a general pattern is a good fit (0.8); a long prompt on a small tier is a
// poor one (0.4); everything else is middling (0.6).
func (a *ContextAnalyzer) modelCompatibility(prompt, modelID string) float64 {
	if a != nil && a.GeneralMatch != nil && a.GeneralMatch(prompt, modelID) {
		return 0.8
	}

	tiers := modeltier.DefaultTable()
	if a != nil && a.Tiers != nil {
		tiers = a.Tiers
	}
	if len(prompt) > longPromptChars && tiers.Lookup(modelID).Tier == modeltier.TierSmall {
		return 0.4
	}
	return 0.6
}
