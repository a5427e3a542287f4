package app

import (
	"context"
	"fmt"
	"os"

	"github.com/stellarlinkco/prompt-lens/internal/analysis"
	"github.com/stellarlinkco/prompt-lens/internal/analyzer"
	"github.com/stellarlinkco/prompt-lens/internal/config"
	"github.com/stellarlinkco/prompt-lens/internal/pattern"
	"github.com/stellarlinkco/prompt-lens/internal/store"
)

// App wires the pattern store, the analysis engine, and the persistence
// collaborator together from config. The engine itself stays free of I/O;
// App is where durability happens.
type App struct {
	Config   *config.Config
	Patterns *pattern.Store
	Engine   *analysis.Engine
	DB       *store.SQLiteStore // nil when storage.type is "none"
}

// Load builds an App: open storage (unless disabled), hydrate the in-memory
// pattern store from the database and any YAML libraries, and assemble the
// engine with config overrides applied.
func Load(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	a := &App{
		Config:   cfg,
		Patterns: pattern.NewStore(),
	}

	if cfg.Storage.Type != "none" {
		db, err := store.Open(cfg)
		if err != nil {
			return nil, err
		}
		a.DB = db

		persisted, err := db.LoadPatterns(ctx)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		for _, p := range persisted {
			if err := a.Patterns.Add(p); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
	}

	// YAML libraries seed patterns the database does not know yet; stats in
	// the database always win over the library file.
	if dir := cfg.Patterns.Dir; dir != "" {
		if _, err := os.Stat(dir); err == nil {
			seeded, err := pattern.LoadFromDir(dir)
			if err != nil {
				a.Close()
				return nil, err
			}
			for _, p := range seeded.All() {
				if _, ok := a.Patterns.Get(p.ID); ok {
					continue
				}
				if err := a.Patterns.Add(p); err != nil {
					a.Close()
					return nil, err
				}
				if a.DB != nil {
					if err := a.DB.SavePattern(ctx, p); err != nil {
						a.Close()
						return nil, err
					}
				}
			}
		}
	}

	rules, err := cfg.Rules()
	if err != nil {
		a.Close()
		return nil, err
	}
	tiers := cfg.Tiers()

	eng := analysis.NewEngine(a.Patterns)
	eng.Tiers = tiers
	eng.Quality.Indicators = cfg.Analysis.Indicators
	eng.Checker = &analyzer.Checker{Rules: rules, Tiers: tiers}
	eng.Context.Tiers = tiers
	a.Engine = eng

	return a, nil
}

// Close releases storage resources.
func (a *App) Close() {
	if a != nil && a.DB != nil {
		_ = a.DB.Close()
	}
}

// SavePattern upserts a pattern in memory and, when storage is enabled, on
// disk.
func (a *App) SavePattern(ctx context.Context, p *pattern.PromptPattern) error {
	if a == nil {
		return fmt.Errorf("app: nil app")
	}
	if err := a.Patterns.Add(p); err != nil {
		return err
	}
	if a.DB != nil {
		stored, _ := a.Patterns.Get(p.ID)
		return a.DB.SavePattern(ctx, stored)
	}
	return nil
}

// DeletePattern removes a pattern everywhere. Unknown ids are a no-op.
func (a *App) DeletePattern(ctx context.Context, id string) (bool, error) {
	if a == nil {
		return false, fmt.Errorf("app: nil app")
	}
	found := a.Patterns.Delete(id)
	if a.DB != nil {
		if err := a.DB.DeletePattern(ctx, id); err != nil {
			return found, err
		}
	}
	return found, nil
}

// RecordOutcome folds a success or failure into a pattern's stats and
// persists the updated record. Unknown ids are a no-op.
func (a *App) RecordOutcome(ctx context.Context, id string, success bool) error {
	if a == nil {
		return fmt.Errorf("app: nil app")
	}
	a.Patterns.RecordOutcome(id, success)
	if a.DB != nil {
		if p, ok := a.Patterns.Get(id); ok {
			return a.DB.SavePattern(ctx, p)
		}
	}
	return nil
}
