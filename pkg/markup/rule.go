package markup

import (
	"regexp"
	"strings"
)

// RenderFunc maps one match to its replacement text.
type RenderFunc func(m Match) string

// Rule is a pattern, its capture slots and the render policy for one tag family.
type Rule struct {
	Name     string
	Example  string
	pattern  *regexp.Regexp
	render   RenderFunc
	template string
}

// NewRule builds a rule whose output is tmpl with $n references expanded.
// It panics if pattern does not compile.
func NewRule(name, pattern, tmpl string) Rule {
	r := Rule{
		Name:     name,
		pattern:  regexp.MustCompile(pattern),
		template: tmpl,
	}
	r.render = func(m Match) string { return m.Expand(tmpl) }
	return r
}

// NewRuleFunc builds a rule whose output is computed by render.
// It panics if pattern does not compile.
func NewRuleFunc(name, pattern string, render RenderFunc) Rule {
	return Rule{
		Name:    name,
		pattern: regexp.MustCompile(pattern),
		render:  render,
	}
}

// WithExample returns a copy of r documenting a sample input.
func (r Rule) WithExample(example string) Rule {
	r.Example = example
	return r
}

// Pattern returns the source of the rule's regular expression.
func (r Rule) Pattern() string {
	return r.pattern.String()
}

// Template returns the fixed output template, or "" for conditional rules.
func (r Rule) Template() string {
	return r.template
}

// Apply replaces every non-overlapping, leftmost match of the rule in text.
// It returns the rewritten text and the number of replacements made.
func (r Rule) Apply(text string) (string, int) {
	locs := r.pattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range locs {
		b.WriteString(text[last:loc[0]])
		b.WriteString(r.render(Match{src: text, loc: loc, pattern: r.pattern}))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String(), len(locs)
}
