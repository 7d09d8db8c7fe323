// Package rows re-keys loosely-headed spreadsheet rows onto a fixed internal schema
// before any business logic sees them.
package rows

import (
	"sort"

	"fiscal-service/internal/core/textnorm"

	"github.com/agnivade/levenshtein"
	"github.com/schollz/closestmatch"
)

// maxFuzzyDistance is the largest edit-distance ratio accepted for a fuzzy header match.
const maxFuzzyDistance = 0.34

// minFuzzyLength keeps short headers such as "PIS" or "INSS" on exact matching only.
const minFuzzyLength = 5

// Row is one decoded spreadsheet row keyed by its raw header text.
type Row map[string]string

// Field is a canonical column name.
type Field string

// Schema lists, per canonical field, every header spelling seen in the wild.
type Schema map[Field][]string

// Canonicalizer resolves raw headers to schema fields. It is immutable once built
// and safe for concurrent use.
type Canonicalizer struct {
	aliases map[string]Field
	keys    []string
	cm      *closestmatch.ClosestMatch
}

// NewCanonicalizer indexes the folded aliases of schema.
func NewCanonicalizer(schema Schema) *Canonicalizer {
	c := &Canonicalizer{aliases: make(map[string]Field)}

	fields := make([]string, 0, len(schema))
	for f := range schema {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)

	for _, f := range fields {
		field := Field(f)
		for _, alias := range append([]string{f}, schema[field]...) {
			key := textnorm.Fold(alias)
			if key == "" {
				continue
			}
			if _, dup := c.aliases[key]; dup {
				continue
			}
			c.aliases[key] = field
			c.keys = append(c.keys, key)
		}
	}
	if len(c.keys) > 0 {
		c.cm = closestmatch.New(c.keys, []int{2, 3})
	}
	return c
}

// Resolve maps a raw header to its field: exact folded alias first, then the closest
// alias when it is near enough.
func (c *Canonicalizer) Resolve(header string) (Field, bool) {
	key := textnorm.Fold(header)
	if key == "" {
		return "", false
	}
	if f, ok := c.aliases[key]; ok {
		return f, true
	}
	if c.cm == nil || len(key) < minFuzzyLength {
		return "", false
	}
	match := c.cm.Closest(key)
	if match == "" {
		return "", false
	}
	longest := len(key)
	if len(match) > longest {
		longest = len(match)
	}
	if float64(levenshtein.ComputeDistance(key, match))/float64(longest) >= maxFuzzyDistance {
		return "", false
	}
	return c.aliases[match], true
}

// Canonicalize re-keys every row. Unknown headers are dropped; when two headers land on
// the same field the first non-empty value, in sorted header order, wins.
func (c *Canonicalizer) Canonicalize(in []Row) []Record {
	out := make([]Record, 0, len(in))
	for _, row := range in {
		headers := make([]string, 0, len(row))
		for h := range row {
			headers = append(headers, h)
		}
		sort.Strings(headers)

		rec := make(Record, len(row))
		for _, h := range headers {
			f, ok := c.Resolve(h)
			if !ok {
				continue
			}
			if existing := rec[f]; existing != "" {
				continue
			}
			rec[f] = row[h]
		}
		out = append(out, rec)
	}
	return out
}
