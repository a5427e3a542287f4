package pattern

import "time"

// ScopeGeneral marks a pattern usable with any model.
const ScopeGeneral = "general"

// PromptPattern is a reusable prompt skeleton with named {placeholder} tokens.
type PromptPattern struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Template    string    `yaml:"template" json:"template"`
	Category    string    `yaml:"category" json:"category"`
	Model       string    `yaml:"model,omitempty" json:"model"` // "general" or a specific model id
	Tags        []string  `yaml:"tags,omitempty" json:"tags,omitempty"`
	UsageCount  int       `yaml:"usage_count,omitempty" json:"usage_count"`
	SuccessRate float64   `yaml:"success_rate,omitempty" json:"success_rate"`
	LastUsed    time.Time `yaml:"last_used,omitempty" json:"last_used,omitempty"`
}

// Clone returns a deep copy of the pattern.
func (p *PromptPattern) Clone() *PromptPattern {
	if p == nil {
		return nil
	}
	out := *p
	if p.Tags != nil {
		out.Tags = make([]string, len(p.Tags))
		copy(out.Tags, p.Tags)
	}
	return &out
}

// Match pairs a pattern with the confidence that it fits a prompt.
type Match struct {
	Pattern    *PromptPattern `json:"pattern"`
	Confidence float64        `json:"confidence"`
	Note       string         `json:"note,omitempty"`
}

// Suggestion pairs a candidate pattern with extracted placeholder values.
type Suggestion struct {
	Pattern    *PromptPattern    `json:"pattern"`
	Confidence float64           `json:"confidence"`
	Variables  map[string]string `json:"variables,omitempty"`
}
