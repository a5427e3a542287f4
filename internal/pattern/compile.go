package pattern

import (
	"regexp"
	"strings"
)

// placeholderRe matches a {name} token. Names follow identifier rules so they
// can become regexp capture-group names.
var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

var whitespaceRunRe = regexp.MustCompile(`\s+`)

// Matcher is a compiled template. A nil or failed compilation produces a
// matcher that never matches, so one malformed template cannot abort analysis
// of the rest of a library.
type Matcher struct {
	re    *regexp.Regexp
	names []string
}

// Compile translates a template into a case-insensitive full-string matcher.
// Each {name} placeholder becomes a named capture of one or more characters on
// its line; literal text matches literally (regexp metacharacters are escaped)
// and whitespace runs match any whitespace run.
func Compile(template string) *Matcher {
	if strings.TrimSpace(template) == "" {
		return &Matcher{}
	}

	var sb strings.Builder
	sb.WriteString(`(?i)^`)

	var names []string
	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(template, -1) {
		sb.WriteString(quoteLiteral(template[last:loc[0]]))
		name := template[loc[2]:loc[3]]
		names = append(names, name)
		sb.WriteString(`(?P<` + name + `>.+?)`)
		last = loc[1]
	}
	sb.WriteString(quoteLiteral(template[last:]))
	sb.WriteString(`$`)

	re, err := regexp.Compile(sb.String())
	if err != nil {
		// Duplicate placeholder names and the like: degrade to never-matches.
		return &Matcher{}
	}
	return &Matcher{re: re, names: names}
}

// quoteLiteral escapes regexp metacharacters in literal template text and
// relaxes whitespace runs to \s+ so authors need not match exact spacing.
func quoteLiteral(s string) string {
	if s == "" {
		return ""
	}
	return whitespaceRunRe.ReplaceAllString(regexp.QuoteMeta(s), `\s+`)
}

// Valid reports whether the matcher can ever match.
func (m *Matcher) Valid() bool {
	return m != nil && m.re != nil
}

// Placeholders returns the placeholder names in template order.
func (m *Matcher) Placeholders() []string {
	if m == nil {
		return nil
	}
	return m.names
}

// Matches reports whether the full prompt matches the compiled template.
func (m *Matcher) Matches(prompt string) bool {
	if !m.Valid() {
		return false
	}
	return m.re.MatchString(prompt)
}

// Extract returns every placeholder's matched substring, or an empty map when
// the prompt does not match. Non-matching input is a normal outcome, not an
// error.
func (m *Matcher) Extract(prompt string) map[string]string {
	out := make(map[string]string)
	if !m.Valid() {
		return out
	}

	sub := m.re.FindStringSubmatch(prompt)
	if sub == nil {
		return out
	}
	for i, name := range m.re.SubexpNames() {
		if i == 0 || name == "" || i >= len(sub) {
			continue
		}
		out[name] = sub[i]
	}
	return out
}
