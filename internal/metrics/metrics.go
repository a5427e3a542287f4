package metrics

import (
	"context"
	"strings"

	"github.com/stellarlinkco/prompt-lens/internal/analysis"
	"github.com/stellarlinkco/prompt-lens/internal/llm"
	"github.com/stellarlinkco/prompt-lens/internal/modeltier"
)

// charsPerToken is the usual rough ratio for English text.
const charsPerToken = 4

// Client is the basic-metrics collaborator: token count, cost estimate, and
// complexity/readability labels. The analysis engine treats its output as
// opaque input. With no provider configured everything is estimated offline.
type Client struct {
	Provider llm.Provider // optional; nil disables the LLM-judged labels
	Tiers    *modeltier.Table
}

type judgedLabels struct {
	Complexity  string `json:"complexity"`
	Readability string `json:"readability"`
}

const judgePrompt = `Classify the following prompt.

## Prompt
%s

## Instructions
Output ONLY valid JSON in this exact format:
{"complexity": "low|medium|high", "readability": "poor|fair|good"}`

// Estimate computes basic metrics for a prompt targeting a model.
func (c *Client) Estimate(ctx context.Context, prompt, modelID string) analysis.BasicMetrics {
	tokens := EstimateTokens(prompt)

	tiers := modeltier.DefaultTable()
	if c != nil && c.Tiers != nil {
		tiers = c.Tiers
	}
	spec := tiers.Lookup(modelID)

	out := analysis.BasicMetrics{
		TokenCount:    tokens,
		EstimatedCost: float64(tokens) / 1000 * spec.InputCostPer1K,
		Complexity:    complexityLabel(prompt),
		Readability:   readabilityLabel(prompt),
	}

	if c != nil && c.Provider != nil && ctx != nil {
		if labels, err := c.judge(ctx, prompt); err == nil {
			if labels.Complexity != "" {
				out.Complexity = labels.Complexity
			}
			if labels.Readability != "" {
				out.Readability = labels.Readability
			}
		}
	}
	return out
}

func (c *Client) judge(ctx context.Context, prompt string) (*judgedLabels, error) {
	resp, err := c.Provider.Complete(ctx, &llm.Request{
		Messages:  []llm.Message{{Role: "user", Content: strings.Replace(judgePrompt, "%s", prompt, 1)}},
		MaxTokens: 128,
	})
	if err != nil {
		return nil, err
	}

	var labels judgedLabels
	if err := llm.ParseJSON(resp.Text, &labels); err != nil {
		return nil, err
	}
	labels.Complexity = strings.ToLower(strings.TrimSpace(labels.Complexity))
	labels.Readability = strings.ToLower(strings.TrimSpace(labels.Readability))
	return &labels, nil
}

// EstimateTokens approximates the token count of a text.
func EstimateTokens(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	n := (len(text) + charsPerToken - 1) / charsPerToken
	if words := len(strings.Fields(text)); words > n {
		n = words
	}
	return n
}

func complexityLabel(prompt string) string {
	words := strings.Fields(prompt)
	switch {
	case len(words) > 200:
		return "high"
	case len(words) > 50:
		return "medium"
	default:
		return "low"
	}
}

func readabilityLabel(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) == 0 {
		return "poor"
	}

	sentences := 1
	for _, r := range prompt {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	perSentence := float64(len(words)) / float64(sentences)
	switch {
	case perSentence > 30:
		return "poor"
	case perSentence > 18:
		return "fair"
	default:
		return "good"
	}
}
