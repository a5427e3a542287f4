package analyzer

import (
	"fmt"
	"strings"

	"github.com/stellarlinkco/prompt-lens/internal/modeltier"
)

// RuleConfig is the declarative YAML form of a best-practice rule. The
// predicate is assembled from the condition fields: every specified condition
// must hold for the rule to be satisfied.
type RuleConfig struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Scope       string         `yaml:"scope"`
	Tier        modeltier.Tier `yaml:"tier,omitempty"`
	Category    string         `yaml:"category,omitempty"`
	Severity    Severity       `yaml:"severity"`
	Suggestion  string         `yaml:"suggestion"`

	RequireAny []string   `yaml:"require_any,omitempty"` // at least one phrase must appear
	ForbidAny  []string   `yaml:"forbid_any,omitempty"`  // none of these phrases may appear
	ForbidMix  [][]string `yaml:"forbid_mix,omitempty"`  // phrases from two or more groups may not co-occur
	MaxChars   int        `yaml:"max_chars,omitempty"`   // prompt must not exceed this length
}

// Rule compiles the declarative form into an evaluable rule.
func (rc RuleConfig) Rule() (Rule, error) {
	name := strings.TrimSpace(rc.Name)
	if name == "" {
		return Rule{}, fmt.Errorf("analyzer: rule missing name")
	}

	scope := strings.ToLower(strings.TrimSpace(rc.Scope))
	switch scope {
	case ScopeStructure, ScopeLanguage, ScopeModel:
	case "":
		scope = ScopeStructure
	default:
		return Rule{}, fmt.Errorf("analyzer: rule %q: unknown scope %q", name, rc.Scope)
	}

	severity := Severity(strings.ToUpper(strings.TrimSpace(string(rc.Severity))))
	switch severity {
	case SeverityInfo, SeverityWarning, SeverityError:
	case "":
		severity = SeverityWarning
	default:
		return Rule{}, fmt.Errorf("analyzer: rule %q: unknown severity %q", name, rc.Severity)
	}

	if len(rc.RequireAny) == 0 && len(rc.ForbidAny) == 0 && len(rc.ForbidMix) == 0 && rc.MaxChars <= 0 {
		return Rule{}, fmt.Errorf("analyzer: rule %q has no conditions", name)
	}

	requireAny := lowerAll(rc.RequireAny)
	forbidAny := lowerAll(rc.ForbidAny)
	var mixGroups [][]string
	for _, g := range rc.ForbidMix {
		mixGroups = append(mixGroups, lowerAll(g))
	}
	maxChars := rc.MaxChars

	return Rule{
		Name:        name,
		Description: strings.TrimSpace(rc.Description),
		Scope:       scope,
		Tier:        rc.Tier,
		Category:    strings.TrimSpace(rc.Category),
		Severity:    severity,
		Suggestion:  strings.TrimSpace(rc.Suggestion),
		Satisfied: func(p string) bool {
			if len(requireAny) > 0 && !containsAny(p, requireAny...) {
				return false
			}
			if len(forbidAny) > 0 && containsAny(p, forbidAny...) {
				return false
			}
			if len(mixGroups) > 0 {
				hit := 0
				for _, g := range mixGroups {
					if containsAny(p, g...) {
						hit++
					}
				}
				if hit > 1 {
					return false
				}
			}
			if maxChars > 0 && len(p) > maxChars {
				return false
			}
			return true
		},
	}, nil
}

// RulesFromConfig compiles declarative rules, appending them to the default
// table. A rule config whose name collides with a default replaces it.
func RulesFromConfig(configs []RuleConfig) ([]Rule, error) {
	rules := DefaultRules()
	for _, rc := range configs {
		r, err := rc.Rule()
		if err != nil {
			return nil, err
		}
		replaced := false
		for i := range rules {
			if rules[i].Name == r.Name {
				rules[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			rules = append(rules, r)
		}
	}
	return rules, nil
}

func lowerAll(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
