package pattern

import (
	"math"
	"testing"
	"time"
)

func newTestStore(t *testing.T, patterns ...*PromptPattern) *Store {
	t.Helper()

	s := NewStore()
	for _, p := range patterns {
		if err := s.Add(p); err != nil {
			t.Fatalf("Add(%q): %v", p.ID, err)
		}
	}
	return s
}

func TestStore_AddGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &PromptPattern{ID: "p1", Name: "one", Template: "Task: {task}", Category: "structured"})

	got, ok := s.Get("p1")
	if !ok {
		t.Fatalf("Get: pattern not found")
	}
	if got.Name != "one" {
		t.Fatalf("Name: got %q want %q", got.Name, "one")
	}
	// Missing model defaults to the general scope.
	if got.Model != ScopeGeneral {
		t.Fatalf("Model: got %q want %q", got.Model, ScopeGeneral)
	}
}

func TestStore_AddRejectsEmptyID(t *testing.T) {
	t.Parallel()

	s := NewStore()
	if err := s.Add(&PromptPattern{ID: "  "}); err == nil {
		t.Fatalf("Add: expected error for empty id")
	}
	if err := s.Add(nil); err == nil {
		t.Fatalf("Add: expected error for nil pattern")
	}
}

func TestStore_AddUpsertKeepsPosition(t *testing.T) {
	t.Parallel()

	s := newTestStore(t,
		&PromptPattern{ID: "a", Name: "first"},
		&PromptPattern{ID: "b", Name: "second"},
	)
	if err := s.Add(&PromptPattern{ID: "a", Name: "replaced"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("All: got %d patterns want 2", len(all))
	}
	if all[0].ID != "a" || all[0].Name != "replaced" {
		t.Fatalf("All[0]: got %q/%q", all[0].ID, all[0].Name)
	}
	if all[1].ID != "b" {
		t.Fatalf("All[1]: got %q want b", all[1].ID)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &PromptPattern{ID: "p1", Name: "one", Tags: []string{"x"}})

	got, _ := s.Get("p1")
	got.Name = "mutated"
	got.Tags[0] = "mutated"

	again, _ := s.Get("p1")
	if again.Name != "one" || again.Tags[0] != "x" {
		t.Fatalf("Get: caller mutation leaked into store: %+v", again)
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t,
		&PromptPattern{ID: "a"},
		&PromptPattern{ID: "b"},
		&PromptPattern{ID: "c"},
	)

	if !s.Delete("b") {
		t.Fatalf("Delete: expected true for known id")
	}
	if s.Delete("b") {
		t.Fatalf("Delete: expected false for already-deleted id")
	}
	if s.Len() != 2 {
		t.Fatalf("Len: got %d want 2", s.Len())
	}

	// Index stays consistent after the shift.
	if got, ok := s.Get("c"); !ok || got.ID != "c" {
		t.Fatalf("Get(c): got %v, %v", got, ok)
	}
}

func TestStore_UpdateUnknownIsNoOp(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &PromptPattern{ID: "a", Name: "one"})
	if s.Update(&PromptPattern{ID: "ghost", Name: "x"}) {
		t.Fatalf("Update: expected false for unknown id")
	}
	if s.Len() != 1 {
		t.Fatalf("Len: got %d want 1", s.Len())
	}
}

func TestStore_Filters(t *testing.T) {
	t.Parallel()

	s := newTestStore(t,
		&PromptPattern{ID: "a", Category: "summarization", Model: "gpt-4o", Tags: []string{"Short", "json"}},
		&PromptPattern{ID: "b", Category: "extraction", Model: ScopeGeneral, Tags: []string{"json"}},
		&PromptPattern{ID: "c", Category: "summarization", Model: "claude-sonnet"},
	)

	if got := s.ByCategory("summarization"); len(got) != 2 {
		t.Fatalf("ByCategory: got %d want 2", len(got))
	}
	// Model filter includes general-scoped patterns.
	if got := s.ByModel("gpt-4o"); len(got) != 2 {
		t.Fatalf("ByModel: got %d want 2", len(got))
	}
	// Tag match is case-insensitive, any-overlap.
	if got := s.ByTags([]string{"SHORT"}); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("ByTags(SHORT): got %v", got)
	}
	if got := s.ByTags([]string{"json", "missing"}); len(got) != 2 {
		t.Fatalf("ByTags(json): got %d want 2", len(got))
	}
	if got := s.ByTags(nil); got != nil {
		t.Fatalf("ByTags(nil): got %v want nil", got)
	}
}

func TestStore_RecordOutcome(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &PromptPattern{ID: "p1", Template: "Task: {task}"})
	fixed := time.Unix(1_700_000_000, 0).UTC()
	s.now = func() time.Time { return fixed }

	s.RecordOutcome("p1", true)
	got, _ := s.Get("p1")
	if got.UsageCount != 1 || got.SuccessRate != 1.0 {
		t.Fatalf("after success: count=%d rate=%v", got.UsageCount, got.SuccessRate)
	}
	if !got.LastUsed.Equal(fixed) {
		t.Fatalf("LastUsed: got %v want %v", got.LastUsed, fixed)
	}

	s.RecordOutcome("p1", false)
	got, _ = s.Get("p1")
	if got.UsageCount != 2 || math.Abs(got.SuccessRate-0.5) > 1e-9 {
		t.Fatalf("after failure: count=%d rate=%v", got.UsageCount, got.SuccessRate)
	}

	s.RecordOutcome("p1", true)
	got, _ = s.Get("p1")
	if got.UsageCount != 3 || math.Abs(got.SuccessRate-2.0/3.0) > 1e-9 {
		t.Fatalf("after second success: count=%d rate=%v", got.UsageCount, got.SuccessRate)
	}
}

func TestStore_RecordOutcomeUnknownID(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &PromptPattern{ID: "p1"})
	s.Delete("p1")
	s.RecordOutcome("p1", true) // stale reference after delete: silently ignored
	if s.Len() != 0 {
		t.Fatalf("Len: got %d want 0", s.Len())
	}
}

func TestStore_FindMatching(t *testing.T) {
	t.Parallel()

	s := newTestStore(t,
		&PromptPattern{ID: "low", Category: "summarization", Template: "Summarize: {text}", SuccessRate: 0.2},
		&PromptPattern{ID: "high", Category: "summarization", Template: "Summarize: {text}", SuccessRate: 0.9},
		&PromptPattern{ID: "other-cat", Category: "extraction", Template: "Summarize: {text}", SuccessRate: 0.99},
		&PromptPattern{ID: "other-model", Category: "summarization", Model: "gpt-4o", Template: "Summarize: {text}", SuccessRate: 0.95},
		&PromptPattern{ID: "no-match", Category: "summarization", Template: "Translate: {text}", SuccessRate: 0.8},
	)

	got := s.FindMatching("Summarize: the article", "summarization", "claude-sonnet")
	if len(got) != 2 {
		t.Fatalf("FindMatching: got %d patterns want 2", len(got))
	}
	if got[0].ID != "high" || got[1].ID != "low" {
		t.Fatalf("FindMatching: got order %q, %q", got[0].ID, got[1].ID)
	}

	// Empty category is a wildcard.
	if got := s.FindMatching("Summarize: the article", "", "claude-sonnet"); len(got) != 3 {
		t.Fatalf("FindMatching(no category): got %d patterns want 3", len(got))
	}

	if !s.MatchesAny("Summarize: the article", "summarization", "claude-sonnet") {
		t.Fatalf("MatchesAny: expected true")
	}
	if s.MatchesAny("Summarize: the article", "unknown", "claude-sonnet") {
		t.Fatalf("MatchesAny: expected false for unknown category")
	}
}

func TestStore_Suggest(t *testing.T) {
	t.Parallel()

	s := newTestStore(t,
		&PromptPattern{ID: "close", Template: "Summarize the following text"},
		&PromptPattern{ID: "far", Template: "Translate the passage into French"},
		&PromptPattern{ID: "scoped-away", Model: "gpt-4o", Template: "Summarize the following text"},
	)

	got := s.Suggest("Please summarize the following text carefully", "claude-sonnet")
	if len(got) != 1 {
		t.Fatalf("Suggest: got %d suggestions want 1", len(got))
	}
	if got[0].Pattern.ID != "close" {
		t.Fatalf("Suggest: got %q want close", got[0].Pattern.ID)
	}
	if got[0].Confidence <= 0.5 {
		t.Fatalf("Confidence: got %v, want > 0.5", got[0].Confidence)
	}
}

func TestNilStore(t *testing.T) {
	t.Parallel()

	var s *Store
	if err := s.Add(&PromptPattern{ID: "x"}); err == nil {
		t.Fatalf("Add: expected error on nil store")
	}
	if s.Delete("x") || s.Update(&PromptPattern{ID: "x"}) {
		t.Fatalf("Delete/Update: expected false on nil store")
	}
	if s.Len() != 0 || s.All() != nil {
		t.Fatalf("Len/All: expected zero values on nil store")
	}
	s.RecordOutcome("x", true)
}
