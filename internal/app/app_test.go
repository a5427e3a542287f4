package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stellarlinkco/prompt-lens/internal/config"
	"github.com/stellarlinkco/prompt-lens/internal/pattern"
)

const seedLibraryYAML = `patterns:
  - id: seeded
    name: Seeded
    template: "Task: {task}"
    category: structured
`

func newTestConfig(t *testing.T, withSeeds bool) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.Type = "sqlite"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "app.db")

	dir := t.TempDir()
	if withSeeds {
		if err := os.WriteFile(filepath.Join(dir, "lib.yaml"), []byte(seedLibraryYAML), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	cfg.Patterns.Dir = dir
	return cfg
}

func loadTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()

	a, err := Load(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestLoad_SeedsFromYAML(t *testing.T) {
	t.Parallel()

	a := loadTestApp(t, newTestConfig(t, true))

	p, ok := a.Patterns.Get("seeded")
	if !ok {
		t.Fatalf("Get: seeded pattern missing")
	}
	if p.Name != "Seeded" {
		t.Fatalf("Name: got %q", p.Name)
	}

	// Seeds are persisted, so a second load finds them in the database.
	got, err := a.DB.LoadPatterns(context.Background())
	if err != nil {
		t.Fatalf("LoadPatterns: %v", err)
	}
	if len(got) != 1 || got[0].ID != "seeded" {
		t.Fatalf("LoadPatterns: got %v", got)
	}
}

func TestLoad_DatabaseStatsWinOverSeeds(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, true)

	a := loadTestApp(t, cfg)
	if err := a.RecordOutcome(context.Background(), "seeded", true); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	a.Close()

	// Reload: the library file still says zero uses, the database knows
	// better.
	b := loadTestApp(t, cfg)
	p, ok := b.Patterns.Get("seeded")
	if !ok {
		t.Fatalf("Get: seeded pattern missing after reload")
	}
	if p.UsageCount != 1 || p.SuccessRate != 1.0 {
		t.Fatalf("stats after reload: count=%d rate=%v", p.UsageCount, p.SuccessRate)
	}
}

func TestSaveAndDeletePattern(t *testing.T) {
	t.Parallel()

	a := loadTestApp(t, newTestConfig(t, false))
	ctx := context.Background()

	p := &pattern.PromptPattern{ID: "p1", Name: "one", Template: "T: {x}", Category: "c"}
	if err := a.SavePattern(ctx, p); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}

	got, err := a.DB.GetPattern(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPattern: %v", err)
	}
	// The store fills the model default before persisting.
	if got.Model != pattern.ScopeGeneral {
		t.Fatalf("Model: got %q want %q", got.Model, pattern.ScopeGeneral)
	}

	found, err := a.DeletePattern(ctx, "p1")
	if err != nil {
		t.Fatalf("DeletePattern: %v", err)
	}
	if !found {
		t.Fatalf("DeletePattern: expected true")
	}
	if _, ok := a.Patterns.Get("p1"); ok {
		t.Fatalf("Get: pattern still in memory after delete")
	}

	found, err = a.DeletePattern(ctx, "p1")
	if err != nil {
		t.Fatalf("DeletePattern(again): %v", err)
	}
	if found {
		t.Fatalf("DeletePattern: expected false for unknown id")
	}
}

func TestLoad_StorageDisabled(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, true)
	cfg.Storage.Type = "none"

	a := loadTestApp(t, cfg)
	if a.DB != nil {
		t.Fatalf("DB: expected nil with storage disabled")
	}
	if _, ok := a.Patterns.Get("seeded"); !ok {
		t.Fatalf("Get: yaml seeds must load without storage")
	}
	if err := a.SavePattern(context.Background(), &pattern.PromptPattern{ID: "x", Template: "t"}); err != nil {
		t.Fatalf("SavePattern without storage: %v", err)
	}
}

func TestLoad_EngineWired(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, false)
	a := loadTestApp(t, cfg)
	if a.Engine == nil || a.Engine.Store != a.Patterns {
		t.Fatalf("Engine: not wired to pattern store")
	}
}

func TestLoad_NilConfigUsesDefaults(t *testing.T) {
	// Default storage writes under the working directory; run from a temp
	// dir so the test leaves no droppings.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	a, err := Load(context.Background(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer a.Close()
	if a.Config == nil {
		t.Fatalf("Config: expected defaults")
	}
}
