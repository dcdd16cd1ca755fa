package markup

// Table is an immutable, ordered list of rules.
// It is safe for concurrent use.
type Table struct {
	rules []Rule
	index map[string]int
}

// defaultTable is compiled during package initialisation so that a broken
// pattern stops the process before any document is processed.
var defaultTable = NewTable(DefaultRules()...)

// DefaultTable returns the canonical rule table.
func DefaultTable() *Table {
	return defaultTable
}

// NewTable builds a table applying rules in the given order.
func NewTable(rules ...Rule) *Table {
	t := &Table{
		rules: make([]Rule, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	copy(t.rules, rules)
	for i, r := range t.rules {
		if _, dup := t.index[r.Name]; !dup {
			t.index[r.Name] = i
		}
	}
	return t
}

// Rules returns a copy of the rules in application order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len reports the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Lookup returns the first rule registered under name.
func (t *Table) Lookup(name string) (Rule, bool) {
	i, ok := t.index[name]
	if !ok {
		return Rule{}, false
	}
	return t.rules[i], true
}

// Names returns the rule names in application order.
func (t *Table) Names() []string {
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.Name
	}
	return names
}

// RuleInfo is the serializable description of a rule.
type RuleInfo struct {
	Name     string `json:"name" yaml:"name"`
	Pattern  string `json:"pattern" yaml:"pattern"`
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
	Example  string `json:"example,omitempty" yaml:"example,omitempty"`
}

// Describe lists every rule in application order.
func (t *Table) Describe() []RuleInfo {
	out := make([]RuleInfo, len(t.rules))
	for i, r := range t.rules {
		out[i] = RuleInfo{
			Name:     r.Name,
			Pattern:  r.Pattern(),
			Template: r.Template(),
			Example:  r.Example,
		}
	}
	return out
}
