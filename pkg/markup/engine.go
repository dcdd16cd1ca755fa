package markup

import "strings"

// Observer is notified after a rule rewrote at least one tag.
type Observer func(rule string, matches int)

// Engine applies a rule table to text.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	table    *Table
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable replaces the default rule table.
func WithTable(t *Table) Option {
	return func(e *Engine) {
		e.table = t
	}
}

// WithObserver registers a callback fired once per rule that matched.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// NewEngine creates an engine over DefaultTable unless WithTable is given.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{table: defaultTable}
	for _, opt := range opts {
		opt(e)
	}
	if e.table == nil {
		e.table = defaultTable
	}
	return e
}

// Table returns the rule table used by the engine.
func (e *Engine) Table() *Table {
	return e.table
}

// Transform runs every rule once, in table order, each over the previous rule's output.
func (e *Engine) Transform(text string) string {
	if !strings.Contains(text, "{@") {
		return text
	}
	for _, r := range e.table.rules {
		var n int
		text, n = r.Apply(text)
		if n > 0 && e.observer != nil {
			e.observer(r.Name, n)
		}
	}
	return text
}

var defaultEngine = NewEngine()

// Transform rewrites text with the default rule table.
func Transform(text string) string {
	return defaultEngine.Transform(text)
}
