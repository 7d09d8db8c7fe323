package extraction

import (
	"testing"

	"fiscal-service/internal/core/textnorm"
	"fiscal-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStatement(t *testing.T) {
	var fx FieldExtractor
	spans := Segment(textnorm.Normalize(statementText, textnorm.StatementOptions), StatementSegmentRule)
	require.Len(t, spans, 2)

	st := ExtractStatement(fx, spans[0])
	assert.Equal(t, "12345", st.WorkerID)
	assert.Equal(t, "JOAO DA SILVA", st.Name)
	assert.Equal(t, "12345678900", st.TaxID)
	assert.Equal(t, 10000.0, st.TaxableIncome)
	assert.Equal(t, 1100.0, st.SocialSecurity)
	assert.Equal(t, 500.0, st.IncomeTax)
	assert.Equal(t, 1000.0, st.ThirteenthGross)
	assert.Equal(t, 50.0, st.ThirteenthIncomeTax)
	assert.Equal(t, 2000.0, st.ProfitShare)
	assert.Equal(t, 300.0, st.ProfitShareIncomeTax)
	assert.Equal(t, []domain.HealthPlanEntry{
		{Beneficiary: "JOAO DA SILVA", Amount: 2400},
		{Beneficiary: "MARIA DA SILVA", Amount: 1200},
	}, st.HealthPlan)
	assert.Equal(t, 3600.0, st.HealthPlanTotal())
	assert.Empty(t, st.Errors)

	st = ExtractStatement(fx, spans[1])
	assert.Equal(t, "67890", st.WorkerID)
	assert.Equal(t, "MARIA SOUZA", st.Name)
	assert.Equal(t, 5000.0, st.TaxableIncome)
	assert.Equal(t, 0.0, st.IncomeTax)
	assert.Empty(t, st.HealthPlan)
}

func TestExtractStatementCompactLayout(t *testing.T) {
	text := "Nome Completo: JOAO DA SILVA - 12345 ... 1. Total dos rendimentos ... 10.000,00"
	spans := Segment(textnorm.Normalize(text, textnorm.StatementOptions), StatementSegmentRule)
	require.Len(t, spans, 1)

	st := ExtractStatement(FieldExtractor{}, spans[0])
	assert.Equal(t, "12345", st.WorkerID)
	assert.Equal(t, 10000.0, st.TaxableIncome)
}

func TestHealthPlanEntries(t *testing.T) {
	text := "Beneficiário: ANA - 150,00\nDependente PEDRO R$ 1.050,75\nTitular: SEM VALOR 0,00\nOutra linha 99,00"
	assert.Equal(t, []domain.HealthPlanEntry{
		{Beneficiary: "ANA", Amount: 150},
		{Beneficiary: "PEDRO", Amount: 1050.75},
	}, HealthPlanEntries(text))
}

func TestExtractStatementValuesBelowLabels(t *testing.T) {
	text := "Nome Completo: JOAO DA SILVA - 123\n" +
		"1. Total dos rendimentos\n20.000,00\n" +
		"2. Contribuição previdenciária oficial\n2.200,00"

	statements := NewService().ExtractStatements([]domain.Document{{Filename: "informe.txt", Text: text}})
	require.Len(t, statements, 1)
	assert.Equal(t, 20000.0, statements[0].TaxableIncome)
	assert.Equal(t, 2200.0, statements[0].SocialSecurity)
}
