package modeltier

import "testing"

func TestLookup_Exact(t *testing.T) {
	t.Parallel()

	got := DefaultTable().Lookup("gpt-4o-mini")
	if got.Tier != TierSmall {
		t.Fatalf("Tier: got %q want %q", got.Tier, TierSmall)
	}
}

func TestLookup_LongestPrefix(t *testing.T) {
	t.Parallel()

	table := DefaultTable()

	// "gpt-4o-mini-2024-07-18" prefixes gpt-4, gpt-4o, and gpt-4o-mini; the
	// longest wins.
	got := table.Lookup("gpt-4o-mini-2024-07-18")
	if got.ID != "gpt-4o-mini" || got.Tier != TierSmall {
		t.Fatalf("Lookup: got %q/%q want gpt-4o-mini/small", got.ID, got.Tier)
	}

	got = table.Lookup("gpt-4o-2024-08-06")
	if got.ID != "gpt-4o" || got.Tier != TierFrontier {
		t.Fatalf("Lookup: got %q/%q want gpt-4o/frontier", got.ID, got.Tier)
	}

	got = table.Lookup("claude-opus-4-1")
	if got.ID != "claude-opus" || got.Tier != TierFrontier {
		t.Fatalf("Lookup: got %q/%q want claude-opus/frontier", got.ID, got.Tier)
	}
}

func TestLookup_UnknownFallsBackToStandard(t *testing.T) {
	t.Parallel()

	got := DefaultTable().Lookup("mystery-model-9000")
	if got.Tier != TierStandard {
		t.Fatalf("Tier: got %q want %q", got.Tier, TierStandard)
	}
	if got.MaxContextChars != 128000 {
		t.Fatalf("MaxContextChars: got %d want 128000", got.MaxContextChars)
	}
}

func TestLookup_NormalizesCase(t *testing.T) {
	t.Parallel()

	got := DefaultTable().Lookup("  GPT-4O  ")
	if got.ID != "gpt-4o" {
		t.Fatalf("ID: got %q want gpt-4o", got.ID)
	}
}

func TestAdd_ReplaceAndDefaultTier(t *testing.T) {
	t.Parallel()

	table := DefaultTable()
	table.Add(Spec{ID: "gpt-4o", Tier: TierSmall, MaxContextChars: 1})
	if got := table.Lookup("gpt-4o"); got.Tier != TierSmall || got.MaxContextChars != 1 {
		t.Fatalf("Lookup after replace: got %+v", got)
	}

	table.Add(Spec{ID: "untired-model"})
	if got := table.Lookup("untired-model"); got.Tier != TierStandard {
		t.Fatalf("Tier default: got %q want standard", got.Tier)
	}

	before := len(table.Specs())
	table.Add(Spec{ID: "   "}) // ignored
	if len(table.Specs()) != before {
		t.Fatalf("Add: blank id must be ignored")
	}
}

func TestNilTable(t *testing.T) {
	t.Parallel()

	var table *Table
	table.Add(Spec{ID: "x"})
	if got := table.Lookup("x"); got.Tier != TierStandard {
		t.Fatalf("Lookup on nil table: got %q want standard", got.Tier)
	}
	if table.Specs() != nil {
		t.Fatalf("Specs on nil table: want nil")
	}
}
