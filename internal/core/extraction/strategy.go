package extraction

import (
	"regexp"
	"strings"
)

// Probe is one label occurrence handed to a strategy.
type Probe struct {
	Text       string
	LabelStart int
	LabelEnd   int
	Pattern    Pattern
}

// Strategy is one fallback tier of the field search. Find returns the raw captured value.
type Strategy interface {
	Name() string
	Find(p Probe) (string, bool)
}

// DefaultStrategies is the order used when a pattern does not declare its own.
var DefaultStrategies = []Strategy{LineBefore{}, LineAfter{}, WindowBefore{}, WindowAfter{}}

// separatorRegex eats the punctuation between a label and its value. A dash only counts as
// separator when followed by a space, so "-10,00" keeps its sign.
var separatorRegex = regexp.MustCompile(`^[ \t]*(?:[:=][ \t]*)?(?:[-–][ \t]+)?`)

var colonAfterLabel = regexp.MustCompile(`^[ \t]*:`)

// LineBefore accepts a value that is the only content of the label's line before the label.
type LineBefore struct{}

// Name implements Strategy.
func (LineBefore) Name() string { return "line_before" }

// Find implements Strategy.
func (LineBefore) Find(p Probe) (string, bool) {
	before := strings.TrimSpace(p.Text[lineStart(p.Text, p.LabelStart):p.LabelStart])
	before = strings.TrimSpace(strings.TrimRight(before, ":"))
	if before == "" {
		return "", false
	}
	m := p.Pattern.Value.FindStringSubmatchIndex(before)
	if m == nil || m[0] != 0 || m[1] != len(before) || m[2] < 0 {
		return "", false
	}
	return before[m[2]:m[3]], true
}

// LineAfter accepts a value right after the label on the same line.
type LineAfter struct{}

// Name implements Strategy.
func (LineAfter) Name() string { return "line_after" }

// Find implements Strategy.
func (LineAfter) Find(p Probe) (string, bool) {
	rest := p.Text[p.LabelEnd:lineEnd(p.Text, p.LabelEnd)]
	rest = strings.TrimRight(rest[len(separatorRegex.FindString(rest)):], " \t")
	return matchAtStart(p.Pattern.Value, rest)
}

// NextLine accepts the first non-blank line after the label's line.
type NextLine struct{}

// Name implements Strategy.
func (NextLine) Name() string { return "next_line" }

// Find implements Strategy.
func (NextLine) Find(p Probe) (string, bool) {
	// somente se o rótulo termina a linha
	end := lineEnd(p.Text, p.LabelEnd)
	if strings.Trim(p.Text[p.LabelEnd:end], " \t:") != "" {
		return "", false
	}
	for pos := end + 1; pos < len(p.Text); {
		e := lineEnd(p.Text, pos)
		line := strings.TrimSpace(p.Text[pos:e])
		if line != "" {
			return matchAtStart(p.Pattern.Value, line)
		}
		pos = e + 1
	}
	return "", false
}

// WindowBefore takes the nearest relaxed match in the window preceding the label. It is
// skipped when the label is followed by ':' or ends a line whose next line starts with a
// value, since both announce a value after it. A value above such a label belongs to the
// label before it.
type WindowBefore struct{}

// Name implements Strategy.
func (WindowBefore) Name() string { return "window_before" }

// Find implements Strategy.
func (WindowBefore) Find(p Probe) (string, bool) {
	if colonAfterLabel.MatchString(p.Text[p.LabelEnd:]) {
		return "", false
	}
	if _, below := (NextLine{}).Find(p); below {
		return "", false
	}
	start := clampBack(p.Text, max(0, p.LabelStart-p.Pattern.window()))
	region := p.Text[start:p.LabelStart]
	all := p.Pattern.relaxed().FindAllStringSubmatchIndex(region, -1)
	for i := len(all) - 1; i >= 0; i-- {
		if m := all[i]; len(m) >= 4 && m[2] >= 0 {
			return region[m[2]:m[3]], true
		}
	}
	return "", false
}

// WindowAfter takes the first relaxed match in the window following the label.
type WindowAfter struct{}

// Name implements Strategy.
func (WindowAfter) Name() string { return "window_after" }

// Find implements Strategy.
func (WindowAfter) Find(p Probe) (string, bool) {
	end := clampForward(p.Text, min(len(p.Text), p.LabelEnd+p.Pattern.window()))
	region := p.Text[p.LabelEnd:end]
	m := p.Pattern.relaxed().FindStringSubmatchIndex(region)
	if m == nil || len(m) < 4 || m[2] < 0 {
		return "", false
	}
	return region[m[2]:m[3]], true
}

func matchAtStart(rx *regexp.Regexp, s string) (string, bool) {
	if s == "" {
		return "", false
	}
	m := rx.FindStringSubmatchIndex(s)
	if m == nil || m[0] != 0 || len(m) < 4 || m[2] < 0 {
		return "", false
	}
	v := strings.TrimSpace(s[m[2]:m[3]])
	return v, v != ""
}
