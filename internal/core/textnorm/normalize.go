// Package textnorm cleans PDF text-layer output before segmentation and folds
// names for accent-insensitive comparison.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options controls the document-type dependent parts of Normalize.
type Options struct {
	CollapseBlankLines bool
}

// InvoiceOptions is used for NFS-e text, where blank lines carry no structure.
var InvoiceOptions = Options{CollapseBlankLines: true}

// StatementOptions is used for informes, whose blank lines separate worker blocks.
var StatementOptions = Options{CollapseBlankLines: false}

var (
	horizontalSpaceRegex = regexp.MustCompile(`[ \t]+`)
	blankLinesRegex      = regexp.MustCompile(`\n{2,}`)
	nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
)

var lineBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
	"\u0085", "\n",
	"\f", "\n",
	"\v", "\n",
)

// Normalize replaces exotic spaces, strips invisible marks, unifies line breaks and
// collapses horizontal whitespace. It is total: any input yields a string.
func Normalize(text string, opts Options) string {
	if text == "" {
		return ""
	}
	text = strings.ToValidUTF8(text, "")
	text = lineBreaks.Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case r == '\t' || unicode.Is(unicode.Zs, r):
			b.WriteByte(' ')
		case isInvisible(r):
			continue
		default:
			b.WriteRune(r)
		}
	}

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpaceRegex.ReplaceAllString(line, " "))
	}
	out := strings.Join(lines, "\n")

	if opts.CollapseBlankLines {
		out = blankLinesRegex.ReplaceAllString(out, "\n")
	}
	return strings.Trim(out, "\n")
}

// isInvisible reports control characters and zero-width/format marks.
func isInvisible(r rune) bool {
	switch r {
	case '\u00ad', '\u200b', '\u200c', '\u200d', '\u200e', '\u200f', '\u2060', '\ufeff':
		return true
	}
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r)
}

// Fold strips accents, upper-cases, replaces punctuation with spaces and collapses
// whitespace, so "Retenção 4,65%" and "RETENCAO 4 65" compare equal.
func Fold(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// CollapseSpaces trims s and reduces every whitespace run to a single space.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}
