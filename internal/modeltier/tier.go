package modeltier

import "strings"

// Tier groups model identifiers into capability bands. Threshold decisions
// branch on the tier, never on raw model id strings.
type Tier string

const (
	TierSmall    Tier = "small"
	TierStandard Tier = "standard"
	TierFrontier Tier = "frontier"
)

// Spec holds the per-model thresholds and pricing used across the analyzers.
type Spec struct {
	ID              string  `yaml:"id" json:"id"`
	Tier            Tier    `yaml:"tier" json:"tier"`
	MaxContextChars int     `yaml:"max_context_chars" json:"max_context_chars"`
	InputCostPer1K  float64 `yaml:"input_cost_per_1k" json:"input_cost_per_1k"`
	OutputCostPer1K float64 `yaml:"output_cost_per_1k" json:"output_cost_per_1k"`
	Style           string  `yaml:"style,omitempty" json:"style,omitempty"`
}

// Table maps model identifiers to specs. New models are added by extending
// the table, not by scattering string comparisons.
type Table struct {
	specs []Spec
}

// defaultSpecs covers the model families the original system branched on.
// Versioned ids resolve by longest prefix, so "gpt-4-0613" finds "gpt-4".
var defaultSpecs = []Spec{
	{ID: "gpt-4", Tier: TierFrontier, MaxContextChars: 512000, InputCostPer1K: 0.03, OutputCostPer1K: 0.06, Style: "structured sections, explicit output format"},
	{ID: "gpt-4o", Tier: TierFrontier, MaxContextChars: 512000, InputCostPer1K: 0.0025, OutputCostPer1K: 0.01, Style: "structured sections, explicit output format"},
	{ID: "gpt-4o-mini", Tier: TierSmall, MaxContextChars: 128000, InputCostPer1K: 0.00015, OutputCostPer1K: 0.0006, Style: "short direct instructions"},
	{ID: "gpt-3.5-turbo", Tier: TierSmall, MaxContextChars: 16000, InputCostPer1K: 0.0005, OutputCostPer1K: 0.0015, Style: "short direct instructions"},
	{ID: "claude-opus", Tier: TierFrontier, MaxContextChars: 800000, InputCostPer1K: 0.015, OutputCostPer1K: 0.075, Style: "structured sections, XML-tagged context"},
	{ID: "claude-sonnet", Tier: TierStandard, MaxContextChars: 800000, InputCostPer1K: 0.003, OutputCostPer1K: 0.015, Style: "structured sections, XML-tagged context"},
	{ID: "claude-haiku", Tier: TierSmall, MaxContextChars: 800000, InputCostPer1K: 0.0008, OutputCostPer1K: 0.004, Style: "short direct instructions"},
}

// DefaultTable returns a table seeded with the built-in model specs.
func DefaultTable() *Table {
	t := &Table{}
	for _, s := range defaultSpecs {
		t.Add(s)
	}
	return t
}

// Add registers a spec, replacing any existing spec with the same id.
func (t *Table) Add(spec Spec) {
	if t == nil {
		return
	}
	id := normalize(spec.ID)
	if id == "" {
		return
	}
	spec.ID = id
	if spec.Tier == "" {
		spec.Tier = TierStandard
	}
	for i := range t.specs {
		if t.specs[i].ID == id {
			t.specs[i] = spec
			return
		}
	}
	t.specs = append(t.specs, spec)
}

// Lookup resolves a model identifier to its spec by exact id, then by longest
// matching prefix. Unknown models fall back to a standard-tier spec.
func (t *Table) Lookup(modelID string) Spec {
	id := normalize(modelID)
	if t != nil && id != "" {
		best := -1
		bestLen := 0
		for i, s := range t.specs {
			if s.ID == id {
				return s
			}
			if strings.HasPrefix(id, s.ID) && len(s.ID) > bestLen {
				best = i
				bestLen = len(s.ID)
			}
		}
		if best >= 0 {
			return t.specs[best]
		}
	}
	return Spec{ID: id, Tier: TierStandard, MaxContextChars: 128000}
}

// Specs returns a copy of the registered specs.
func (t *Table) Specs() []Spec {
	if t == nil {
		return nil
	}
	out := make([]Spec, len(t.specs))
	copy(out, t.specs)
	return out
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
