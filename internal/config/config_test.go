package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stellarlinkco/prompt-lens/internal/modeltier"
)

const testConfigYAML = `llm:
  default_provider: openai
  providers:
    openai:
      api_key: file-key
      model: gpt-4o-mini
storage:
  type: memory
patterns:
  dir: custom-patterns
analysis:
  rules:
    - name: needs_hello
      severity: ERROR
      require_any: ["hello"]
  models:
    - id: my-model
      tier: small
      max_context_chars: 4000
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(writeConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LLM.DefaultProvider != "openai" {
		t.Fatalf("DefaultProvider: got %q", cfg.LLM.DefaultProvider)
	}
	if cfg.LLM.Providers["openai"].APIKey != "file-key" {
		t.Fatalf("APIKey: got %q", cfg.LLM.Providers["openai"].APIKey)
	}
	if cfg.Storage.Type != "memory" {
		t.Fatalf("Storage.Type: got %q", cfg.Storage.Type)
	}
	if cfg.Patterns.Dir != "custom-patterns" {
		t.Fatalf("Patterns.Dir: got %q", cfg.Patterns.Dir)
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("Load: expected error for missing file")
	}
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := Load(writeConfig(t, "llm: [")); err == nil {
		t.Fatalf("Load: expected parse error")
	}
}

func TestDefault(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Default()
	if cfg.LLM.DefaultProvider != "claude" {
		t.Fatalf("DefaultProvider: got %q want claude", cfg.LLM.DefaultProvider)
	}
	if cfg.Patterns.Dir != "patterns" {
		t.Fatalf("Patterns.Dir: got %q want patterns", cfg.Patterns.Dir)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-claude-key")
	t.Setenv("OPENAI_API_KEY", "env-openai-key")

	cfg := Default()
	if cfg.LLM.Providers["claude"].APIKey != "env-claude-key" {
		t.Fatalf("claude APIKey: got %q", cfg.LLM.Providers["claude"].APIKey)
	}
	if cfg.LLM.Providers["openai"].APIKey != "env-openai-key" {
		t.Fatalf("openai APIKey: got %q", cfg.LLM.Providers["openai"].APIKey)
	}
}

func TestAuthTokenFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "token-key")

	cfg := Default()
	if cfg.LLM.Providers["claude"].APIKey != "token-key" {
		t.Fatalf("claude APIKey: got %q want token-key", cfg.LLM.Providers["claude"].APIKey)
	}
}

func TestTiersAndRules(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(writeConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tiers := cfg.Tiers()
	if got := tiers.Lookup("my-model"); got.Tier != modeltier.TierSmall || got.MaxContextChars != 4000 {
		t.Fatalf("Tiers: got %+v", got)
	}
	// Built-in specs survive the override.
	if got := tiers.Lookup("gpt-4o"); got.Tier != modeltier.TierFrontier {
		t.Fatalf("Tiers builtin: got %+v", got)
	}

	rules, err := cfg.Rules()
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	found := false
	for _, r := range rules {
		if r.Name == "needs_hello" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Rules: custom rule missing")
	}
}

func TestRules_Invalid(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(writeConfig(t, "analysis:\n  rules:\n    - name: broken\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := cfg.Rules(); err == nil {
		t.Fatalf("Rules: expected error for rule without conditions")
	}
}
