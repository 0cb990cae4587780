package logging

import "regexp"

// Redactor removes backend credentials from log output. Stage contexts can
// contain whole request bodies, so everything that reaches a handler is
// filtered.
type Redactor struct {
	patterns []*regexp.Regexp
	replaced string
}

// NewRedactor creates a redactor with the default credential patterns.
func NewRedactor() *Redactor {
	patterns := []string{
		// OpenAI-style keys
		`sk-[A-Za-z0-9]{20,}`,
		// Anthropic keys
		`sk-ant-[a-zA-Z0-9-]{40,}`,
		// Google AI keys
		`AIza[a-zA-Z0-9_-]{35}`,
		// Authorization headers
		`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`,
		// Generic api_key / token assignments
		`(?i)api[_-]?key["'\s:=]+[a-zA-Z0-9_-]{20,}`,
		`(?i)token["'\s:=]+[a-zA-Z0-9_-]{20,}`,
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return &Redactor{patterns: compiled, replaced: "[REDACTED]"}
}

// Redact replaces every credential match in the input.
func (r *Redactor) Redact(input string) string {
	out := input
	for _, p := range r.patterns {
		out = p.ReplaceAllString(out, r.replaced)
	}
	return out
}

// AddPattern registers an extra pattern.
func (r *Redactor) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.patterns = append(r.patterns, re)
	return nil
}
