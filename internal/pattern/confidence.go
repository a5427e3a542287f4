package pattern

import "strings"

// Confidence scores lexical overlap between a template and a prompt in [0,1].
// Each template word (placeholder tokens included, verbatim) counts as covered
// when some prompt word contains it case-insensitively; the score is the
// covered fraction. Recall is favored over precision here; callers filter with
// the 0.5 suggestion threshold.
func Confidence(template, prompt string) float64 {
	templateWords := strings.Fields(strings.ToLower(template))
	if len(templateWords) == 0 {
		return 0
	}
	promptWords := strings.Fields(strings.ToLower(prompt))

	covered := 0
	for _, tw := range templateWords {
		for _, pw := range promptWords {
			if strings.Contains(pw, tw) {
				covered++
				break
			}
		}
	}

	return clamp01(float64(covered) / float64(len(templateWords)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
