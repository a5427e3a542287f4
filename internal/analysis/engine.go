package analysis

import (
	"fmt"

	"github.com/stellarlinkco/prompt-lens/internal/analyzer"
	"github.com/stellarlinkco/prompt-lens/internal/modeltier"
	"github.com/stellarlinkco/prompt-lens/internal/pattern"
)

// Engine composes the pattern store with the quality, context, and
// best-practice analyzers. Analysis performs no I/O and may run concurrently
// from any number of callers; the store serializes its own mutations.
type Engine struct {
	Store   *pattern.Store
	Quality *analyzer.QualityAnalyzer
	Context *analyzer.ContextAnalyzer
	Checker *analyzer.Checker
	Tiers   *modeltier.Table
}

// NewEngine wires an engine around a pattern store with default analyzers.
func NewEngine(store *pattern.Store) *Engine {
	if store == nil {
		store = pattern.NewStore()
	}
	tiers := modeltier.DefaultTable()
	return &Engine{
		Store:   store,
		Quality: analyzer.NewQualityAnalyzer(),
		Checker: &analyzer.Checker{Rules: analyzer.DefaultRules(), Tiers: tiers},
		Context: &analyzer.ContextAnalyzer{
			Tiers: tiers,
			GeneralMatch: func(prompt, modelID string) bool {
				return store.MatchesAny(prompt, pattern.ScopeGeneral, modelID)
			},
		},
		Tiers: tiers,
	}
}

// Analyze runs the full analysis pipeline over one prompt and returns a
// best-effort result. Degenerate input yields floor scores, never an error.
func (e *Engine) Analyze(req *Request) *Result {
	if e == nil || req == nil {
		return &Result{}
	}

	out := &Result{
		Metrics:    req.Metrics,
		Quality:    e.Quality.Analyze(req.Prompt),
		Context:    e.Context.Analyze(req.Prompt, req.Context, req.TaskDescription, req.ModelID),
		Violations: e.Checker.Check(req.Prompt, req.Category, req.ModelID),
	}

	for _, p := range e.Store.FindMatching(req.Prompt, req.Category, req.ModelID) {
		out.Matches = append(out.Matches, pattern.Match{
			Pattern:    p,
			Confidence: pattern.Confidence(p.Template, req.Prompt),
			Note:       matchNote(p),
		})
	}
	out.Suggestions = e.Store.Suggest(req.Prompt, req.ModelID)

	return out
}

// ExtractVariables recovers placeholder values from a prompt for one pattern.
// A non-matching prompt returns an empty map.
func (e *Engine) ExtractVariables(prompt string, p *pattern.PromptPattern) map[string]string {
	if p == nil {
		return map[string]string{}
	}
	return pattern.Compile(p.Template).Extract(prompt)
}

func matchNote(p *pattern.PromptPattern) string {
	if p == nil {
		return ""
	}
	if p.UsageCount == 0 {
		return fmt.Sprintf("pattern %q has not been used yet", p.Name)
	}
	return fmt.Sprintf("pattern %q succeeded in %.0f%% of %d uses", p.Name, p.SuccessRate*100, p.UsageCount)
}
