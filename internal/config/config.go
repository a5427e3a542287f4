package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stellarlinkco/prompt-lens/internal/analyzer"
	"github.com/stellarlinkco/prompt-lens/internal/modeltier"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Storage  StorageConfig  `yaml:"storage"`
	Patterns PatternsConfig `yaml:"patterns"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

type PatternsConfig struct {
	Dir string `yaml:"dir,omitempty"` // directory of YAML pattern libraries
}

// AnalysisConfig overrides the analyzer's built-in tables. Indicator phrase
// lists, best-practice rules, and model tier specs all extend here without a
// recompile of calling code.
type AnalysisConfig struct {
	Indicators analyzer.Indicators   `yaml:"indicators,omitempty"`
	Rules      []analyzer.RuleConfig `yaml:"rules,omitempty"`
	Models     []modeltier.Spec      `yaml:"models,omitempty"`
}

func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with built-in defaults, for callers running
// without a config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(cfg.LLM.DefaultProvider) == "" {
		cfg.LLM.DefaultProvider = "claude"
	}
	if strings.TrimSpace(cfg.Patterns.Dir) == "" {
		cfg.Patterns.Dir = "patterns"
	}

	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	} else if v := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.APIKey = v
		cfg.LLM.Providers["openai"] = p
	}
}

// Tiers builds the model tier table with config overrides applied.
func (c *Config) Tiers() *modeltier.Table {
	t := modeltier.DefaultTable()
	if c == nil {
		return t
	}
	for _, spec := range c.Analysis.Models {
		t.Add(spec)
	}
	return t
}

// Rules compiles the best-practice rule table with config rules applied.
func (c *Config) Rules() ([]analyzer.Rule, error) {
	if c == nil {
		return analyzer.DefaultRules(), nil
	}
	return analyzer.RulesFromConfig(c.Analysis.Rules)
}
