package extraction

import (
	"fiscal-service/internal/core/money"
	"fiscal-service/internal/core/textnorm"
)

// Value is the outcome of one field search.
type Value struct {
	Raw      string
	Text     string
	Amount   float64
	Strategy string
	Found    bool
}

// FieldExtractor runs the strategy tiers of a pattern over a span. The zero value uses
// DefaultStrategies.
type FieldExtractor struct {
	Strategies []Strategy
}

func (fx FieldExtractor) strategiesFor(p Pattern) []Strategy {
	switch {
	case len(p.Strategies) > 0:
		return p.Strategies
	case len(fx.Strategies) > 0:
		return fx.Strategies
	default:
		return DefaultStrategies
	}
}

// Extract tries each strategy in order against every label occurrence and keeps the first
// non-empty capture. A miss yields the zero Value.
func (fx FieldExtractor) Extract(text string, p Pattern) Value {
	if text == "" || p.Value == nil {
		return Value{}
	}
	labels := p.labelOccurrences(text)
	if len(labels) == 0 {
		return Value{}
	}
	for _, s := range fx.strategiesFor(p) {
		for _, loc := range labels {
			raw, ok := s.Find(Probe{Text: text, LabelStart: loc[0], LabelEnd: loc[1], Pattern: p})
			if !ok || raw == "" {
				continue
			}
			v := Value{Raw: raw, Strategy: s.Name(), Found: true}
			if p.Post != nil {
				raw = p.Post(raw)
			}
			switch p.Kind {
			case KindMoney:
				v.Amount = money.ParseValue(raw)
			case KindDigits:
				v.Text = onlyDigits(raw)
			default:
				v.Text = textnorm.CollapseSpaces(raw)
			}
			return v
		}
	}
	return Value{}
}

// Text returns the trimmed, whitespace-collapsed value of p, or "".
func (fx FieldExtractor) Text(text string, p Pattern) string {
	return fx.Extract(text, p).Text
}

// Money returns the parsed amount of p, or 0.
func (fx FieldExtractor) Money(text string, p Pattern) float64 {
	return fx.Extract(text, p).Amount
}
