package analysis

import (
	"github.com/stellarlinkco/prompt-lens/internal/analyzer"
	"github.com/stellarlinkco/prompt-lens/internal/pattern"
)

// BasicMetrics are supplied by an external collaborator (token counting and
// cost estimation service); the engine never computes them, only carries them
// into the result.
type BasicMetrics struct {
	TokenCount    int     `json:"token_count"`
	EstimatedCost float64 `json:"estimated_cost"`
	Complexity    string  `json:"complexity,omitempty"`
	Readability   string  `json:"readability,omitempty"`
}

// Request carries one prompt and its analysis context.
type Request struct {
	Prompt          string            `json:"prompt"`
	Category        string            `json:"category,omitempty"`
	TaskDescription string            `json:"task_description,omitempty"`
	ModelID         string            `json:"model,omitempty"`
	Context         map[string]string `json:"context,omitempty"`

	// Metrics is optional; when the caller obtained basic metrics from the
	// remote service it passes them through here.
	Metrics BasicMetrics `json:"metrics,omitempty"`
}

// Result aggregates every analysis output for a single prompt.
type Result struct {
	Metrics     BasicMetrics            `json:"metrics"`
	Quality     analyzer.QualityMetrics `json:"quality"`
	Context     analyzer.ContextMetrics `json:"context"`
	Violations  []analyzer.Violation    `json:"violations,omitempty"`
	Matches     []pattern.Match         `json:"matches,omitempty"`
	Suggestions []pattern.Suggestion    `json:"suggestions,omitempty"`
}
