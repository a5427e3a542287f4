package analyzer

// Indicators are the phrase tables the quality analyzer scores against.
// Callers may override any table through configuration; empty tables fall
// back to the defaults.
type Indicators struct {
	Clarity       []string `yaml:"clarity,omitempty"`
	Specificity   []string `yaml:"specificity,omitempty"`
	Consistency   []string `yaml:"consistency,omitempty"`
	Completeness  []string `yaml:"completeness,omitempty"`
	TaskMarkers   []string `yaml:"task_markers,omitempty"`
	OutputMarkers []string `yaml:"output_markers,omitempty"`
}

// DefaultIndicators returns the built-in phrase tables.
func DefaultIndicators() Indicators {
	return Indicators{
		Clarity: []string{
			"clearly", "specifically", "precisely", "in detail", "exactly", "step by step",
		},
		Specificity: []string{
			"for example", "such as", "including", "in particular", "e.g.", "namely",
		},
		Consistency: []string{
			"first", "second", "then", "next", "finally", "moreover", "additionally", "furthermore",
		},
		Completeness: []string{
			"comprehensive", "entire", "complete", "all", "every", "thorough",
		},
		TaskMarkers: []string{
			"task:", "objective:", "goal:", "your task",
		},
		OutputMarkers: []string{
			"output:", "expected output", "format:", "respond with", "return",
		},
	}
}

// merged fills empty tables from the defaults so partial config overrides
// keep the rest of the built-ins.
func (in Indicators) merged() Indicators {
	def := DefaultIndicators()
	if len(in.Clarity) == 0 {
		in.Clarity = def.Clarity
	}
	if len(in.Specificity) == 0 {
		in.Specificity = def.Specificity
	}
	if len(in.Consistency) == 0 {
		in.Consistency = def.Consistency
	}
	if len(in.Completeness) == 0 {
		in.Completeness = def.Completeness
	}
	if len(in.TaskMarkers) == 0 {
		in.TaskMarkers = def.TaskMarkers
	}
	if len(in.OutputMarkers) == 0 {
		in.OutputMarkers = def.OutputMarkers
	}
	return in
}
