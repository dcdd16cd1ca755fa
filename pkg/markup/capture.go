package markup

import "regexp"

// Capture is the value of one capture slot of a match.
// It is either Present (the group participated in the match) or Absent.
type Capture interface {
	isCapture()
}

// Present holds the text captured by a group that participated in the match.
// The text may be empty.
type Present string

// Absent marks an optional group that did not participate in the match.
type Absent struct{}

func (Present) isCapture() {}
func (Absent) isCapture()  {}

// Match is one occurrence of a rule's pattern in the text being rewritten.
type Match struct {
	src     string
	loc     []int
	pattern *regexp.Regexp
}

// Text returns the whole matched tag expression.
func (m Match) Text() string {
	return m.src[m.loc[0]:m.loc[1]]
}

// Slot returns capture slot i. Slot 0 is the whole match.
// Out of range slots are Absent.
func (m Match) Slot(i int) Capture {
	if i < 0 || 2*i+1 >= len(m.loc) || m.loc[2*i] < 0 {
		return Absent{}
	}
	return Present(m.src[m.loc[2*i]:m.loc[2*i+1]])
}

// Value returns the text of slot i, or "" when the slot is absent.
func (m Match) Value(i int) string {
	if p, ok := m.Slot(i).(Present); ok {
		return string(p)
	}
	return ""
}

// Expand substitutes $1 / ${1} style references in tmpl with the captured slots.
func (m Match) Expand(tmpl string) string {
	return string(m.pattern.ExpandString(nil, tmpl, m.src, m.loc))
}
