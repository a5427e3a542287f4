package analyzer

// QualityMetrics holds per-dimension prompt quality scores in [0,1] plus
// improvement suggestions for dimensions that scored low.
type QualityMetrics struct {
	Clarity      float64  `json:"clarity"`
	Specificity  float64  `json:"specificity"`
	Consistency  float64  `json:"consistency"`
	Completeness float64  `json:"completeness"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// ContextMetrics holds alignment scores between a prompt and the caller's
// supplied context, each in [0,1].
type ContextMetrics struct {
	DomainRelevance    float64 `json:"domain_relevance"`
	TaskAlignment      float64 `json:"task_alignment"`
	ModelCompatibility float64 `json:"model_compatibility"`
	ContextAwareness   float64 `json:"context_awareness"`
}

// Severity grades a best-practice violation.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Violation is a named best-practice rule the prompt failed to satisfy.
type Violation struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Suggestion  string   `json:"suggestion"`
}
