package analysis

import (
	"strings"
	"testing"

	"github.com/stellarlinkco/prompt-lens/internal/analyzer"
	"github.com/stellarlinkco/prompt-lens/internal/pattern"
)

func newTestEngine(t *testing.T, patterns ...*pattern.PromptPattern) *Engine {
	t.Helper()

	store := pattern.NewStore()
	for _, p := range patterns {
		if err := store.Add(p); err != nil {
			t.Fatalf("Add(%q): %v", p.ID, err)
		}
	}
	return NewEngine(store)
}

func TestEngineAnalyze_FullPipeline(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t,
		&pattern.PromptPattern{
			ID:          "summarize",
			Name:        "Summarize",
			Category:    "summarization",
			Template:    "Task: summarize {text}",
			UsageCount:  4,
			SuccessRate: 0.75,
		},
	)

	req := &Request{
		Prompt:   "Task: summarize the quarterly report",
		Category: "summarization",
		ModelID:  "gpt-4o",
		Metrics:  BasicMetrics{TokenCount: 9, EstimatedCost: 0.001},
	}
	got := eng.Analyze(req)

	if got.Metrics.TokenCount != 9 {
		t.Fatalf("Metrics passthrough: got %d want 9", got.Metrics.TokenCount)
	}
	if got.Quality.Clarity == 0 && got.Quality.Completeness == 0 {
		t.Fatalf("Quality: expected non-zero scores, got %+v", got.Quality)
	}
	if got.Context.ModelCompatibility == 0 {
		t.Fatalf("Context: expected model compatibility score, got %+v", got.Context)
	}

	if len(got.Matches) != 1 {
		t.Fatalf("Matches: got %d want 1", len(got.Matches))
	}
	m := got.Matches[0]
	if m.Pattern.ID != "summarize" {
		t.Fatalf("Matches[0].Pattern.ID: got %q", m.Pattern.ID)
	}
	if m.Confidence <= 0 || m.Confidence > 1 {
		t.Fatalf("Matches[0].Confidence: got %v", m.Confidence)
	}
	if !strings.Contains(m.Note, "75%") || !strings.Contains(m.Note, "4 uses") {
		t.Fatalf("Matches[0].Note: got %q", m.Note)
	}
}

func TestEngineAnalyze_UnusedPatternNote(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, &pattern.PromptPattern{
		ID:       "fresh",
		Name:     "Fresh",
		Category: "summarization",
		Template: "Summarize: {text}",
	})

	got := eng.Analyze(&Request{Prompt: "Summarize: the memo", Category: "summarization"})
	if len(got.Matches) != 1 {
		t.Fatalf("Matches: got %d want 1", len(got.Matches))
	}
	if !strings.Contains(got.Matches[0].Note, "not been used yet") {
		t.Fatalf("Note: got %q", got.Matches[0].Note)
	}
}

func TestEngineAnalyze_Suggestions(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, &pattern.PromptPattern{
		ID:       "close",
		Template: "Summarize the following text",
	})

	got := eng.Analyze(&Request{Prompt: "Please summarize the following text now"})
	if len(got.Suggestions) != 1 {
		t.Fatalf("Suggestions: got %d want 1", len(got.Suggestions))
	}
	if got.Suggestions[0].Confidence <= 0.5 {
		t.Fatalf("Confidence: got %v, want > 0.5", got.Suggestions[0].Confidence)
	}
}

func TestEngineAnalyze_GeneralMatchRaisesCompatibility(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, &pattern.PromptPattern{
		ID:       "g1",
		Category: pattern.ScopeGeneral,
		Template: "Summarize: {text}",
	})

	got := eng.Analyze(&Request{Prompt: "Summarize: the memo", ModelID: "gpt-4o"})
	if got.Context.ModelCompatibility != 0.8 {
		t.Fatalf("ModelCompatibility: got %v want 0.8", got.Context.ModelCompatibility)
	}
}

func TestEngineAnalyze_DegenerateInput(t *testing.T) {
	t.Parallel()

	eng := NewEngine(nil)
	got := eng.Analyze(&Request{})
	if got == nil {
		t.Fatalf("Analyze: expected result")
	}
	if len(got.Matches) != 0 || len(got.Suggestions) != 0 {
		t.Fatalf("Analyze: got %+v, want empty matches", got)
	}

	var nilEng *Engine
	if nilEng.Analyze(nil) == nil {
		t.Fatalf("Analyze: nil engine must still return a result")
	}
}

func TestEngineExtractVariables(t *testing.T) {
	t.Parallel()

	eng := NewEngine(nil)
	p := &pattern.PromptPattern{Template: "Task: {task}"}

	got := eng.ExtractVariables("Task: summarize", p)
	if got["task"] != "summarize" {
		t.Fatalf("ExtractVariables: got %#v", got)
	}
	if got := eng.ExtractVariables("no match", p); len(got) != 0 {
		t.Fatalf("ExtractVariables: got %#v want empty", got)
	}
	if got := eng.ExtractVariables("x", nil); len(got) != 0 {
		t.Fatalf("ExtractVariables(nil pattern): got %#v want empty", got)
	}
}

func TestEngineAnalyze_Violations(t *testing.T) {
	t.Parallel()

	eng := NewEngine(nil)
	got := eng.Analyze(&Request{Prompt: "maybe do something"})

	found := false
	for _, v := range got.Violations {
		if v.Name == "clear_task_definition" && v.Severity == analyzer.SeverityError {
			found = true
		}
	}
	if !found {
		t.Fatalf("Violations: expected clear_task_definition ERROR, got %v", got.Violations)
	}
}
