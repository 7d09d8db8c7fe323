package tax

import (
	"strings"
	"testing"

	"fiscal-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceWithRetention(name string, total, retained float64) domain.TaxInvoice {
	return domain.TaxInvoice{
		Number:           "1",
		SchemeName:       name,
		ServiceTotal:     total,
		ObservedRetained: map[domain.TaxType]float64{domain.TaxCOFINS: retained},
	}
}

func TestResolveScheme(t *testing.T) {
	tests := []struct {
		name  string
		inv   domain.TaxInvoice
		want  string
		match domain.SchemeMatch
	}{
		{"exact name beats closer percentage", invoiceWithRetention("serviços gerais", 10000, 465), "Serviços Gerais", domain.MatchExact},
		{"folded name", invoiceWithRetention("SERVICOS-GERAIS", 10000, 465), "Serviços Gerais", domain.MatchNormalized},
		{"closest percentage", invoiceWithRetention("", 10000, 465), "Padrão", domain.MatchPercentage},
		{"unknown name falls back to percentage", invoiceWithRetention("Outro", 10000, 615), "Serviços Gerais", domain.MatchPercentage},
		{"zero total", invoiceWithRetention("", 0, 0), "Ato Cooperativo", domain.MatchPercentage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ResolveScheme(tt.inv, testSchemes)
			require.NotNil(t, res.Scheme)
			assert.Equal(t, tt.want, res.Scheme.Name)
			assert.Equal(t, tt.match, res.Match)
		})
	}
}

func TestResolveSchemeScalesFractions(t *testing.T) {
	schemes := []domain.TaxScheme{
		{Name: "Seis", RetentionPercentage: 6},
		{Name: "Fração", RetentionPercentage: 0.0465},
	}
	res := ResolveScheme(invoiceWithRetention("", 10000, 465), schemes)
	require.NotNil(t, res.Scheme)
	assert.Equal(t, "Fração", res.Scheme.Name)
	assert.InDelta(t, 4.65, res.ObservedPercentage, 1e-9)
}

func TestResolveSchemeEmptyTable(t *testing.T) {
	res := ResolveScheme(invoiceWithRetention("Padrão", 10000, 465), nil)
	assert.Nil(t, res.Scheme)
	assert.Equal(t, domain.MatchNone, res.Match)

	for _, amounts := range InvoiceTaxes(domain.TaxInvoice{ServiceTotal: 1000}, res.Scheme) {
		assert.Equal(t, 0.0, amounts.Retained)
		assert.Equal(t, amounts.Due, amounts.Pending)
	}
}

func TestLoadSchemes(t *testing.T) {
	list := `
- name: " Padrão "
  rates: {csll: 1, PIS: 0.65, COFINS: 3}
- name: Serviços Gerais
  retention_percentage: 6.15
  rates: {IR: 1.5, CSLL: 1, PIS: 0.65, COFINS: 3}
`
	schemes, err := LoadSchemes(strings.NewReader(list))
	require.NoError(t, err)
	require.Len(t, schemes, 2)
	assert.Equal(t, "Padrão", schemes[0].Name)
	assert.Equal(t, 4.65, schemes[0].RetentionPercentage, "derived from the rates")
	assert.Equal(t, 1.0, schemes[0].Rates[domain.TaxCSLL])
	assert.Equal(t, 6.15, schemes[1].RetentionPercentage)

	wrapped := "schemes:\n  - name: Único\n    retention_percentage: 1.5\n"
	schemes, err = LoadSchemes(strings.NewReader(wrapped))
	require.NoError(t, err)
	require.Len(t, schemes, 1)
	assert.Equal(t, "Único", schemes[0].Name)

	_, err = LoadSchemes(strings.NewReader("- name: X\n  rates: {IOF: 1}\n"))
	assert.ErrorContains(t, err, "tributo desconhecido")

	_, err = LoadSchemes(strings.NewReader("- retention_percentage: 1\n"))
	assert.ErrorIs(t, err, errSchemeWithoutName)

	_, err = LoadSchemes(strings.NewReader("schemes: [unterminated"))
	assert.Error(t, err)
}

func TestNormalizeSchemes(t *testing.T) {
	schemes := []domain.TaxScheme{{Name: " Padrão ", Rates: map[domain.TaxType]float64{"csll": 1, " pis ": 0.65, "Cofins": 3}}}
	require.NoError(t, NormalizeSchemes(schemes))
	assert.Equal(t, "Padrão", schemes[0].Name)
	assert.Equal(t, map[domain.TaxType]float64{domain.TaxCSLL: 1, domain.TaxPIS: 0.65, domain.TaxCOFINS: 3}, schemes[0].Rates)
	assert.Equal(t, 4.65, schemes[0].RetentionPercentage)

	err := NormalizeSchemes([]domain.TaxScheme{{Name: "A"}, {Name: "B", Rates: map[domain.TaxType]float64{"IOF": 1}}})
	assert.ErrorContains(t, err, "esquema 2")
}
