package analyzer

import (
	"strings"

	"github.com/stellarlinkco/prompt-lens/internal/modeltier"
)

// Rule scopes.
const (
	ScopeStructure = "structure"
	ScopeLanguage  = "language"
	ScopeModel     = "model"
)

// Rule is one best-practice check. Rules are plain data plus a small
// predicate; the evaluation loop never grows when rules are added.
type Rule struct {
	Name        string
	Description string
	Scope       string         // structure, language, or model
	Tier        modeltier.Tier // model-scoped rules only; empty matches any tier
	Category    string         // optional category filter
	Severity    Severity
	Suggestion  string
	Satisfied   func(prompt string) bool // lower-cased prompt
}

// Checker evaluates a rule table against prompt text.
type Checker struct {
	Rules []Rule
	Tiers *modeltier.Table
}

// NewChecker returns a checker with the default rule set.
func NewChecker() *Checker {
	return &Checker{Rules: DefaultRules(), Tiers: modeltier.DefaultTable()}
}

// Check returns a violation for every applicable rule the prompt fails.
func (c *Checker) Check(prompt, category, modelID string) []Violation {
	rules := DefaultRules()
	tiers := modeltier.DefaultTable()
	if c != nil {
		if c.Rules != nil {
			rules = c.Rules
		}
		if c.Tiers != nil {
			tiers = c.Tiers
		}
	}

	lower := strings.ToLower(prompt)
	tier := tiers.Lookup(modelID).Tier
	category = strings.TrimSpace(category)

	var out []Violation
	for _, r := range rules {
		if r.Satisfied == nil {
			continue
		}
		if r.Scope == ScopeModel && r.Tier != "" && r.Tier != tier {
			continue
		}
		if r.Category != "" && !strings.EqualFold(r.Category, category) {
			continue
		}
		if r.Satisfied(lower) {
			continue
		}
		out = append(out, Violation{
			Name:        r.Name,
			Description: r.Description,
			Severity:    r.Severity,
			Suggestion:  r.Suggestion,
		})
	}
	return out
}

// DefaultRules is the built-in best-practice rule table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "clear_task_definition",
			Description: "The prompt does not state its task explicitly.",
			Scope:       ScopeStructure,
			Severity:    SeverityError,
			Suggestion:  "Open with an explicit task statement, e.g. \"Task: summarize the report\".",
			Satisfied: func(p string) bool {
				return containsAny(p, "task:", "objective:", "goal:", "your task")
			},
		},
		{
			Name:        "context_setting",
			Description: "The prompt provides no background or context section.",
			Scope:       ScopeStructure,
			Severity:    SeverityWarning,
			Suggestion:  "Add a context section describing inputs, background, and constraints.",
			Satisfied: func(p string) bool {
				return containsAny(p, "context:", "background:", "given")
			},
		},
		{
			Name:        "output_format_specification",
			Description: "The prompt does not specify the expected output format.",
			Scope:       ScopeStructure,
			Severity:    SeverityWarning,
			Suggestion:  "Describe the expected output, e.g. \"Expected output: a JSON array of titles\".",
			Satisfied: func(p string) bool {
				return containsAny(p, "expected output", "output:", "format:", "respond with", "return")
			},
		},
		{
			Name:        "unambiguous_language",
			Description: "The prompt hedges with tentative wording.",
			Scope:       ScopeLanguage,
			Severity:    SeverityWarning,
			Suggestion:  "Replace hedging words like \"maybe\" or \"perhaps\" with direct instructions.",
			Satisfied: func(p string) bool {
				return !containsAny(p, "maybe", "perhaps", "possibly", "might want", "kind of", "sort of")
			},
		},
		{
			Name:        "consistent_tone",
			Description: "The prompt mixes formal and informal register.",
			Scope:       ScopeLanguage,
			Severity:    SeverityInfo,
			Suggestion:  "Pick one register; mixing \"kindly\" with \"gonna\" confuses instruction-following.",
			Satisfied: func(p string) bool {
				formal := containsAny(p, "kindly", "would you please", "hereby")
				informal := containsAny(p, "gonna", "wanna", "hey ", "btw", "lol")
				return !(formal && informal)
			},
		},
		{
			Name:        "small_model_brevity",
			Description: "The prompt is long for a small-tier model.",
			Scope:       ScopeModel,
			Tier:        modeltier.TierSmall,
			Severity:    SeverityInfo,
			Suggestion:  "Small-tier models follow short, focused prompts better; trim or split this one.",
			Satisfied: func(p string) bool {
				return len(p) <= 2*longPromptChars
			},
		},
		{
			Name:        "frontier_model_structure",
			Description: "A long prompt for a frontier-tier model has no section structure.",
			Scope:       ScopeModel,
			Tier:        modeltier.TierFrontier,
			Severity:    SeverityInfo,
			Suggestion:  "Split long prompts into labeled sections (Task / Context / Expected output).",
			Satisfied: func(p string) bool {
				if len(p) <= longPromptChars {
					return true
				}
				return containsAny(p, "task:", "context:", "output:", "##")
			},
		},
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
