package tax

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"fiscal-service/internal/core/money"
	"fiscal-service/internal/core/textnorm"
	"fiscal-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// Resolution is the scheme chosen for one invoice and how it was found.
type Resolution struct {
	Scheme             *domain.TaxScheme
	Match              domain.SchemeMatch
	ObservedPercentage float64
}

// ResolveScheme picks the scheme of inv: exact case-insensitive name, then folded name, then
// the closest retention percentage. Ties go to the first scheme of the table. Only an
// empty table yields no scheme.
func ResolveScheme(inv domain.TaxInvoice, schemes []domain.TaxScheme) Resolution {
	res := Resolution{Match: domain.MatchNone, ObservedPercentage: observedPercentage(inv)}
	if len(schemes) == 0 {
		return res
	}

	name := strings.TrimSpace(inv.SchemeName)
	if name != "" {
		for i := range schemes {
			if strings.EqualFold(strings.TrimSpace(schemes[i].Name), name) {
				res.Scheme, res.Match = &schemes[i], domain.MatchExact
				return res
			}
		}
		folded := textnorm.Fold(name)
		for i := range schemes {
			if folded != "" && textnorm.Fold(schemes[i].Name) == folded {
				res.Scheme, res.Match = &schemes[i], domain.MatchNormalized
				return res
			}
		}
	}

	best, bestDiff := -1, math.Inf(1)
	for i := range schemes {
		pct := retentionPercentage(schemes[i])
		if pct < 1 && res.ObservedPercentage > 1 {
			pct *= 100
		}
		if diff := math.Abs(pct - res.ObservedPercentage); diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	res.Scheme, res.Match = &schemes[best], domain.MatchPercentage
	return res
}

// observedPercentage is the retention printed on the invoice as a share of its total.
func observedPercentage(inv domain.TaxInvoice) float64 {
	if inv.ServiceTotal == 0 {
		return 0
	}
	return inv.ObservedTaxAmount() * 100 / inv.ServiceTotal
}

// retentionPercentage falls back to the sum of the per-tax rates when the scheme has no
// declared total.
func retentionPercentage(s domain.TaxScheme) float64 {
	if s.RetentionPercentage != 0 {
		return s.RetentionPercentage
	}
	var sum float64
	for _, t := range domain.TaxTypes {
		sum += s.Rates[t]
	}
	return money.Round2(sum)
}

type schemeFile struct {
	Schemes []domain.TaxScheme `yaml:"schemes"`
}

// LoadSchemes reads a YAML scheme table, either as a top-level list or under "schemes".
func LoadSchemes(r io.Reader) ([]domain.TaxScheme, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler tabela de esquemas: %w", err)
	}

	var schemes []domain.TaxScheme
	if err := yaml.Unmarshal(data, &schemes); err != nil {
		var file schemeFile
		if err2 := yaml.Unmarshal(data, &file); err2 != nil {
			return nil, fmt.Errorf("erro ao interpretar tabela de esquemas: %w", err2)
		}
		schemes = file.Schemes
	}

	if err := NormalizeSchemes(schemes); err != nil {
		return nil, err
	}
	return schemes, nil
}

// NormalizeSchemes trims names, upper-cases rate keys and fills missing retention
// percentages in place. An unnamed scheme or an unknown tax key is an error.
func NormalizeSchemes(schemes []domain.TaxScheme) error {
	for i := range schemes {
		if err := normalizeScheme(&schemes[i]); err != nil {
			return fmt.Errorf("esquema %d: %w", i+1, err)
		}
	}
	return nil
}

var errSchemeWithoutName = errors.New("esquema sem nome")

func normalizeScheme(s *domain.TaxScheme) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return errSchemeWithoutName
	}
	if s.Rates == nil {
		s.Rates = map[domain.TaxType]float64{}
	}
	normalized := make(map[domain.TaxType]float64, len(s.Rates))
	for k, v := range s.Rates {
		t := domain.TaxType(strings.ToUpper(strings.TrimSpace(string(k))))
		if !knownTaxType(t) {
			return fmt.Errorf("tributo desconhecido %q", k)
		}
		normalized[t] = v
	}
	s.Rates = normalized
	if s.RetentionPercentage == 0 {
		s.RetentionPercentage = retentionPercentage(*s)
	}
	return nil
}

func knownTaxType(t domain.TaxType) bool {
	for _, known := range domain.TaxTypes {
		if t == known {
			return true
		}
	}
	return false
}
