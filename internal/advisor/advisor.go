package advisor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/stellarlinkco/prompt-lens/internal/analysis"
	"github.com/stellarlinkco/prompt-lens/internal/llm"
)

// Advisor turns an analysis result into targeted prompt rewrites using an
// LLM. It is the optimization collaborator around the engine, not part of it.
type Advisor struct {
	Provider llm.Provider
}

// ImproveRequest carries the prompt and its completed analysis.
type ImproveRequest struct {
	Prompt         string
	Analysis       *analysis.Result
	MaxSuggestions int // default: 5
}

// FixSuggestion describes one targeted fix.
type FixSuggestion struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Before      string `json:"before,omitempty"`
	After       string `json:"after,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Priority    int    `json:"priority"`
}

// ImproveResult is the advisor output.
type ImproveResult struct {
	Summary     string          `json:"summary"`
	Suggestions []FixSuggestion `json:"suggestions"`
}

const improvePromptTemplate = `You are a prompt improvement advisor. Propose the smallest effective edits.

## Prompt
<prompt>
{{PROMPT}}
</prompt>

## Analysis Findings
{{FINDINGS}}

## Your Task
1. Summarize the prompt's main weakness in one sentence.
2. Propose up to {{MAX_SUGGESTIONS}} fix suggestions addressing the findings.

## Suggestion Rules
- Prefer minimal edits; keep the original intent.
- Include at least one suggestion with type="rewrite_prompt" whose "after" is the FULL revised prompt.
- priority: integer 1 (highest) to 5 (lowest).
- impact: low|medium|high.

## Output Format
Return ONLY valid JSON, no markdown, no code fences:
{
  "summary": "...",
  "suggestions": [
    {
      "id": "S1",
      "type": "clarify_instruction|add_context|add_examples|specify_output_format|rewrite_prompt",
      "description": "...",
      "before": "...",
      "after": "...",
      "impact": "low|medium|high",
      "priority": 1
    }
  ]
}`

// Improve asks the provider for fixes grounded in the analysis findings.
func (a *Advisor) Improve(ctx context.Context, req *ImproveRequest) (*ImproveResult, error) {
	if a == nil || a.Provider == nil {
		return nil, errors.New("advisor: nil provider")
	}
	if ctx == nil {
		return nil, errors.New("advisor: nil context")
	}
	if req == nil {
		return nil, errors.New("advisor: nil request")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, errors.New("advisor: empty prompt")
	}

	maxSuggestions := req.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = 5
	}
	if maxSuggestions > 20 {
		maxSuggestions = 20
	}

	prompt := strings.ReplaceAll(improvePromptTemplate, "{{PROMPT}}", req.Prompt)
	prompt = strings.ReplaceAll(prompt, "{{FINDINGS}}", formatFindings(req.Analysis))
	prompt = strings.ReplaceAll(prompt, "{{MAX_SUGGESTIONS}}", fmt.Sprintf("%d", maxSuggestions))

	resp, err := a.Provider.Complete(ctx, &llm.Request{
		Messages:  []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens: 4096,
	})
	if err != nil {
		return nil, fmt.Errorf("advisor: %w", err)
	}
	if resp == nil {
		return nil, errors.New("advisor: nil llm response")
	}

	var parsed ImproveResult
	if err := llm.ParseJSON(strings.TrimSpace(resp.Text), &parsed); err != nil {
		return nil, fmt.Errorf("advisor: failed to parse response: %w", err)
	}

	parsed.Summary = strings.TrimSpace(parsed.Summary)
	parsed.Suggestions = normalizeSuggestions(parsed.Suggestions, maxSuggestions)
	return &parsed, nil
}

func normalizeSuggestions(in []FixSuggestion, max int) []FixSuggestion {
	out := in[:0]
	for _, s := range in {
		s.ID = strings.TrimSpace(s.ID)
		s.Type = strings.TrimSpace(s.Type)
		s.Description = strings.TrimSpace(s.Description)
		s.Before = strings.TrimSpace(s.Before)
		s.After = strings.TrimSpace(s.After)
		s.Impact = strings.TrimSpace(s.Impact)
		if s.ID == "" || s.Type == "" || s.Description == "" {
			continue
		}
		if s.Priority <= 0 {
			s.Priority = 3
		}
		if s.Priority > 5 {
			s.Priority = 5
		}
		out = append(out, s)
		if max > 0 && len(out) >= max {
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// formatFindings renders the analysis result as evidence for the advisor.
func formatFindings(res *analysis.Result) string {
	if res == nil {
		return "No analysis findings available."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Quality scores: clarity=%.2f specificity=%.2f consistency=%.2f completeness=%.2f\n",
		res.Quality.Clarity, res.Quality.Specificity, res.Quality.Consistency, res.Quality.Completeness))
	sb.WriteString(fmt.Sprintf("Context scores: domain=%.2f task=%.2f model=%.2f awareness=%.2f\n",
		res.Context.DomainRelevance, res.Context.TaskAlignment, res.Context.ModelCompatibility, res.Context.ContextAwareness))

	for _, s := range res.Quality.Suggestions {
		sb.WriteString(fmt.Sprintf("- Suggestion: %s\n", s))
	}
	for _, v := range res.Violations {
		sb.WriteString(fmt.Sprintf("- %s %s: %s (%s)\n", v.Severity, v.Name, v.Description, v.Suggestion))
	}
	if len(res.Violations) == 0 && len(res.Quality.Suggestions) == 0 {
		sb.WriteString("No rule violations detected.\n")
	}

	return strings.TrimSpace(sb.String())
}
