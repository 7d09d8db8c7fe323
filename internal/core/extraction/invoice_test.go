package extraction

import (
	"testing"

	"fiscal-service/internal/core/money"
	"fiscal-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractInvoice(t *testing.T) {
	var fx FieldExtractor
	rec := ExtractInvoice(fx, normalizeInvoice(invoiceText))

	assert.Equal(t, "2024123", rec.Number)
	assert.Equal(t, "15/03/2024 10:22:31", rec.IssueDate)
	assert.Equal(t, "03/2024", rec.Competence)
	assert.Equal(t, "AB12-CD34", rec.VerificationCode)
	assert.Equal(t, "17.01", rec.ServiceCode)
	assert.Equal(t, "Consultoria em gestão tributária", rec.ServiceDescription)

	assert.Equal(t, domain.Party{
		Document:              "12345678000190",
		Name:                  "ACME CONSULTORIA LTDA",
		MunicipalRegistration: "1234567",
		Address:               "RUA DAS FLORES, 100",
		City:                  "CURITIBA",
		State:                 "PR",
		Email:                 "contato@acme.com.br",
	}, rec.Issuer)
	assert.Equal(t, "98765432000110", rec.Taker.Document)
	assert.Equal(t, "UNIMED REGIONAL", rec.Taker.Name)
	assert.Equal(t, "LONDRINA", rec.Taker.City)

	assert.Equal(t, 10000.0, rec.ServiceValue)
	assert.Equal(t, 150.0, rec.IR)
	assert.Equal(t, 100.0, rec.CSLL)
	assert.Equal(t, 65.0, rec.PIS)
	assert.Equal(t, 300.0, rec.COFINS)
	assert.Equal(t, 0.0, rec.ISS)
	assert.Equal(t, 5.0, rec.ISSRate)
	assert.Equal(t, 9385.0, rec.NetValue)

	assert.Equal(t, 1.0, rec.Confidence)
	assert.Empty(t, rec.Errors)
}

func TestInvoiceNetValueConsistency(t *testing.T) {
	var fx FieldExtractor
	for _, text := range []string{invoiceText, secondInvoiceText} {
		rec := ExtractInvoice(fx, normalizeInvoice(text))
		want := money.Round2(rec.ServiceValue - rec.Deductions - rec.TotalTaxes())
		assert.Equal(t, want, rec.NetValue, rec.Number)
	}
}

func TestInvoiceConfidence(t *testing.T) {
	var fx FieldExtractor
	rec := ExtractInvoice(fx, "Número da NFS-e: 55\nValor Líquido: 100,00")

	assert.Equal(t, 0.5, rec.Confidence)
	require.Len(t, rec.Errors, 1)
	assert.Equal(t, "campos essenciais ausentes: documento do prestador, documento do tomador", rec.Errors[0])
}

func TestInvoiceWithNothingRecognizable(t *testing.T) {
	var fx FieldExtractor
	rec := ExtractInvoice(fx, "página em branco")

	assert.Equal(t, 0.0, rec.Confidence)
	require.Len(t, rec.Errors, 1)
	assert.Contains(t, rec.Errors[0], "número")
	assert.Contains(t, rec.Errors[0], "valor líquido")
}

func TestIssRetainedFlagIsNotAnAmount(t *testing.T) {
	var fx FieldExtractor
	text := "ISS Retido: Não\nValor do ISS: 25,00"
	assert.Equal(t, 25.0, fx.Money(text, invISS))
}

func TestExtractInvoiceValuesBelowLabels(t *testing.T) {
	text := "Número da NFS-e\n77\n" +
		"PRESTADOR DE SERVIÇOS\nCNPJ\n12.345.678/0001-90\n" +
		"TOMADOR DE SERVIÇOS\nCNPJ\n98.765.432/0001-10\n" +
		"Valor do Serviço\nR$ 1.000,00\nValor Líquido\nR$ 950,00"

	var fx FieldExtractor
	rec := ExtractInvoice(fx, normalizeInvoice(text))

	assert.Equal(t, "77", rec.Number)
	assert.Equal(t, 1000.0, rec.ServiceValue)
	assert.Equal(t, 950.0, rec.NetValue)
	assert.Equal(t, 1.0, rec.Confidence)
}
