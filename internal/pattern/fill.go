package pattern

import (
	"fmt"
	"sort"
	"strings"
)

// MissingVariablesError reports placeholders absent from the fill values.
type MissingVariablesError struct {
	Names []string
}

func (e *MissingVariablesError) Error() string {
	if e == nil || len(e.Names) == 0 {
		return "pattern: missing variables"
	}
	return fmt.Sprintf("pattern: missing variables: %s", strings.Join(e.Names, ", "))
}

// Fill substitutes values for every {name} placeholder in the template.
// A placeholder without a value is a genuine usage error: the returned
// *MissingVariablesError lists every missing name.
func Fill(template string, values map[string]string) (string, error) {
	var missing []string
	seen := make(map[string]struct{})

	out := placeholderRe.ReplaceAllStringFunc(template, func(tok string) string {
		name := tok[1 : len(tok)-1]
		v, ok := values[name]
		if !ok {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				missing = append(missing, name)
			}
			return tok
		}
		return v
	})

	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &MissingVariablesError{Names: missing}
	}
	return out, nil
}
