package extraction

import (
	"regexp"
	"strings"
)

// TextSpan is the part of a document that belongs to one entity. End is the offset of the
// next kept anchor or the end of the text.
type TextSpan struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Text     string `json:"-"`
	Name     string `json:"name,omitempty"`
	EntityID string `json:"entity_id,omitempty"`
}

// SegmentRule configures the segmenter for one document type.
//
// Anchor may carry the named groups "name" and "id". Disqualifier is searched in the Context
// bytes before each anchor. LookAhead has one capture group and is tried right after the
// anchor when the name group came back empty. Evidence, when set, drops spans it rejects.
type SegmentRule struct {
	Anchor          *regexp.Regexp
	Disqualifier    *regexp.Regexp
	Context         int
	LookAhead       *regexp.Regexp
	LookAheadWindow int
	Evidence        func(span string) bool
}

type anchorHit struct {
	start int
	name  string
	id    string
}

// Segment splits text into entity spans in document order. No anchors means no spans.
func Segment(text string, rule SegmentRule) []TextSpan {
	if text == "" || rule.Anchor == nil {
		return []TextSpan{}
	}

	nameIdx := rule.Anchor.SubexpIndex("name")
	idIdx := rule.Anchor.SubexpIndex("id")

	var hits []anchorHit
	for _, m := range rule.Anchor.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]

		if rule.Disqualifier != nil {
			from := clampBack(text, max(0, start-rule.Context))
			if rule.Disqualifier.MatchString(text[from:start]) {
				continue
			}
		}

		hit := anchorHit{start: start, name: group(text, m, nameIdx), id: group(text, m, idIdx)}

		// fragmento de CPF/CNPJ capturado no lugar da matrícula
		if idIdx >= 0 && hit.name == "" && (len(hit.id) >= 9 || len(hit.id) <= 2) {
			continue
		}

		if hit.name == "" && rule.LookAhead != nil {
			limit := clampForward(text, min(len(text), end+rule.LookAheadWindow))
			if la := rule.LookAhead.FindStringSubmatch(text[end:limit]); len(la) > 1 {
				hit.name = strings.TrimSpace(la[1])
			}
		}
		hits = append(hits, hit)
	}

	spans := make([]TextSpan, 0, len(hits))
	for i, h := range hits {
		spanEnd := len(text)
		if i+1 < len(hits) {
			spanEnd = hits[i+1].start
		}
		body := text[h.start:spanEnd]
		if rule.Evidence != nil && !rule.Evidence(body) {
			continue
		}
		spans = append(spans, TextSpan{Start: h.start, End: spanEnd, Text: body, Name: h.name, EntityID: h.id})
	}
	return spans
}

func group(text string, m []int, idx int) string {
	if idx < 0 || 2*idx+1 >= len(m) || m[2*idx] < 0 {
		return ""
	}
	return strings.TrimSpace(text[m[2*idx]:m[2*idx+1]])
}
