package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind selects how a captured value is post-processed.
type Kind int

// Constants for pattern kinds.
const (
	KindText Kind = iota
	KindMoney
	KindDigits
)

// defaultWindow is the relaxed search radius, in bytes, around a label.
const defaultWindow = 100

// Pattern describes how one named field is located in a span.
//
// Label finds the field's caption. Value must hold exactly one capture group and is matched
// against the text next to the label; Relaxed, when set, replaces Value for the window tiers.
// Exclude is matched against the text right after a label occurrence and discards that
// occurrence when it matches.
type Pattern struct {
	Name       string
	Label      *regexp.Regexp
	Value      *regexp.Regexp
	Relaxed    *regexp.Regexp
	Exclude    *regexp.Regexp
	Post       func(string) string
	Kind       Kind
	Strategies []Strategy
	Window     int
}

// relaxed returns the regex used by the window tiers.
func (p Pattern) relaxed() *regexp.Regexp {
	if p.Relaxed != nil {
		return p.Relaxed
	}
	return p.Value
}

func (p Pattern) window() int {
	if p.Window > 0 {
		return p.Window
	}
	return defaultWindow
}

// labelOccurrences returns every label match of p in text that Exclude does not reject.
func (p Pattern) labelOccurrences(text string) [][2]int {
	if p.Label == nil {
		return nil
	}
	var out [][2]int
	for _, loc := range p.Label.FindAllStringIndex(text, -1) {
		if loc[1] == loc[0] {
			continue
		}
		if p.Exclude != nil {
			end := clampForward(text, min(len(text), loc[1]+60))
			if p.Exclude.MatchString(text[loc[1]:end]) {
				continue
			}
		}
		out = append(out, [2]int{loc[0], loc[1]})
	}
	return out
}

// Shared value regexes.
var (
	moneyValue   = regexp.MustCompile(`^((?:R\$\s*)?-?\d{1,3}(?:\.\d{3})+,\d{2}|(?:R\$\s*)?-?\d+,\d{2})`)
	moneyRelaxed = regexp.MustCompile(`(-?\d{1,3}(?:\.\d{3})+,\d{2}|-?\d+,\d{2}|-?\d+\.\d{2}\b)`)
	textValue    = regexp.MustCompile(`^(.+)$`)
	digitsValue  = regexp.MustCompile(`^(\d+)`)
	documentRx   = `(\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}|\d{3}\.?\d{3}\.?\d{3}-?\d{2})`
	documentVal  = regexp.MustCompile(`^` + documentRx)
	documentAny  = regexp.MustCompile(documentRx)
	percentValue = regexp.MustCompile(`^(\d{1,2}(?:[.,]\d{1,4})?)\s*%?`)
	dateValue    = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4}(?:\s+\d{2}:\d{2}(?::\d{2})?)?)`)
	nonDigits    = regexp.MustCompile(`\D+`)
)

// onlyDigits strips formatting from document numbers and keys.
func onlyDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// moneyField builds a monetary pattern with the default strategy order.
func moneyField(name, label string) Pattern {
	return Pattern{
		Name:    name,
		Label:   regexp.MustCompile(label),
		Value:   moneyValue,
		Relaxed: moneyRelaxed,
		Kind:    KindMoney,
	}
}

// textField builds a free-text pattern that reads the rest of the label's line or the next one.
func textField(name, label string) Pattern {
	return Pattern{
		Name:       name,
		Label:      regexp.MustCompile(label),
		Value:      textValue,
		Kind:       KindText,
		Strategies: []Strategy{LineAfter{}, NextLine{}},
	}
}

func lineStart(text string, pos int) int {
	return strings.LastIndexByte(text[:pos], '\n') + 1
}

func lineEnd(text string, pos int) int {
	if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(text)
}

// clampBack moves i back to the start of the rune it falls in.
func clampBack(text string, i int) int {
	for i > 0 && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

// clampForward moves i forward to the next rune start.
func clampForward(text string, i int) int {
	for i < len(text) && !utf8.RuneStart(text[i]) {
		i++
	}
	return i
}
