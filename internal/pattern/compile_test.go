package pattern

import (
	"reflect"
	"testing"
)

func TestCompile_MatchesAndExtract(t *testing.T) {
	t.Parallel()

	m := Compile("Task: {task}\nContext: {context}\nExpected Output: {expected_output}")
	if !m.Valid() {
		t.Fatalf("Valid: expected compiled matcher")
	}

	prompt := "Task: summarize the report\nContext: quarterly earnings call\nExpected Output: three bullet points"
	if !m.Matches(prompt) {
		t.Fatalf("Matches: expected match for %q", prompt)
	}

	got := m.Extract(prompt)
	want := map[string]string{
		"task":            "summarize the report",
		"context":         "quarterly earnings call",
		"expected_output": "three bullet points",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract: got %#v want %#v", got, want)
	}
}

func TestCompile_CaseInsensitive(t *testing.T) {
	t.Parallel()

	m := Compile("Summarize this: {text}")
	if !m.Matches("SUMMARIZE THIS: the article") {
		t.Fatalf("Matches: expected case-insensitive match")
	}
}

func TestCompile_WhitespaceRuns(t *testing.T) {
	t.Parallel()

	m := Compile("Task: {task}")
	if !m.Matches("Task:    do the thing") {
		t.Fatalf("Matches: expected flexible whitespace match")
	}
}

func TestCompile_EscapesMetacharacters(t *testing.T) {
	t.Parallel()

	m := Compile("What is 2+2? {answer}")
	if !m.Matches("What is 2+2? four") {
		t.Fatalf("Matches: expected literal metacharacters to match")
	}
	if m.Matches("What is 222? four") {
		t.Fatalf("Matches: metacharacters must not act as regexp operators")
	}
}

func TestCompile_FullStringOnly(t *testing.T) {
	t.Parallel()

	m := Compile("Summarize: {text}")
	if m.Matches("Please Summarize: the article") {
		t.Fatalf("Matches: expected anchored match to reject prefix text")
	}
}

func TestCompile_MalformedTemplateNeverMatches(t *testing.T) {
	t.Parallel()

	// Duplicate capture names fail regexp compilation.
	m := Compile("{x} and {x}")
	if m.Valid() {
		t.Fatalf("Valid: expected degraded matcher")
	}
	if m.Matches("a and b") {
		t.Fatalf("Matches: degraded matcher must never match")
	}
	if got := m.Extract("a and b"); len(got) != 0 {
		t.Fatalf("Extract: got %#v want empty map", got)
	}
}

func TestCompile_EmptyTemplate(t *testing.T) {
	t.Parallel()

	if Compile("").Valid() {
		t.Fatalf("Valid: empty template must not compile")
	}
	if Compile("   ").Matches("anything") {
		t.Fatalf("Matches: blank template must never match")
	}
}

func TestCompile_Placeholders(t *testing.T) {
	t.Parallel()

	m := Compile("{a} then {b} then {c}")
	got := m.Placeholders()
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Placeholders: got %v want %v", got, want)
	}
}

func TestExtract_NonMatchReturnsEmptyMap(t *testing.T) {
	t.Parallel()

	m := Compile("Task: {task}")
	got := m.Extract("completely unrelated prompt")
	if got == nil {
		t.Fatalf("Extract: expected non-nil map")
	}
	if len(got) != 0 {
		t.Fatalf("Extract: got %#v want empty map", got)
	}
}

func TestNilMatcher(t *testing.T) {
	t.Parallel()

	var m *Matcher
	if m.Valid() {
		t.Fatalf("Valid: nil matcher must be invalid")
	}
	if m.Matches("x") {
		t.Fatalf("Matches: nil matcher must never match")
	}
	if m.Placeholders() != nil {
		t.Fatalf("Placeholders: nil matcher must return nil")
	}
}
