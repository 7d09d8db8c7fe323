package aggregation

import (
	"testing"

	"fiscal-service/internal/core/rows"
	"fiscal-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWorkers(t *testing.T) {
	ledger := []rows.Row{
		{"Matrícula": "00123", "Nome": "João da Silva", "CPF": "123.456.789-00", "Competência": "02/2024", "Código": "8781", "Valor": "5.000,00", "Descrição": "Salário"},
		{"Matrícula": "123", "Competência": "01/2024", "Código": "8781.0", "Valor": "4.900,00"},
		{"Matrícula": "123", "Competência": "01/2024", "Base IRRF": "4.300,00"},
		{"Matrícula": "456", "Ano": "2024", "Mês": "3", "Evento": "8121", "Vlr": "10,50"},
		{"Matrícula": "", "Competência": "01/2024", "Código": "8781", "Valor": "1,00"},
		{"Matrícula": "789", "Competência": "sem data", "Código": "8781", "Valor": "1,00"},
	}
	leaves := []rows.Row{
		{"Matrícula": "123", "Data de Pagamento": "10/07/2024", "Início Período Aquisitivo": "01/01/2023", "Fim Período Aquisitivo": "31/12/2023", "Valor Bruto": "6.000,00", "INSS": "600,00", "IRRF": "300,00", "Método": "Cálculo em separado"},
		{"Matrícula": "123", "Data de Pagamento": "20/12/2024", "Início Período Aquisitivo": "01/01/2023", "Fim Período Aquisitivo": "31/12/2023", "Valor Bruto": "1.000,00"},
		{"Matrícula": "999", "Data de Pagamento": "05/05/2024", "Valor Bruto": "2.000,00"},
	}
	dependents := []rows.Row{
		{"Matrícula": "123", "Nome do Dependente": "Maria", "Deduz IR": "Sim"},
		{"Matrícula": "123", "Nome do Dependente": "Pedro", "Deduz IR": "Não"},
		{"Matrícula": "555", "Nome do Dependente": "Órfão", "Deduz IR": "S"},
	}

	workers := BuildWorkers(ledger, leaves, dependents)
	require.Len(t, workers, 3)

	w := workers[0]
	assert.Equal(t, "123", w.ID)
	assert.Equal(t, "JOÃO DA SILVA", w.Name)
	assert.Equal(t, "12345678900", w.TaxID)
	require.Len(t, w.Paychecks, 2)
	assert.Equal(t, 1, w.Paychecks[0].Month, "paychecks sorted by competence")
	assert.Equal(t, "01/2024", w.Paychecks[0].SourceLabel)
	require.NotNil(t, w.Paychecks[0].BaseCalcIncomeTax)
	assert.Equal(t, 4300.0, *w.Paychecks[0].BaseCalcIncomeTax)
	assert.Equal(t, []domain.PaycheckEntry{{Code: "8781", Amount: 4900}}, w.Paychecks[0].Entries)
	assert.Equal(t, "Salário", w.Paychecks[1].Entries[0].Description)

	require.Len(t, w.VestingPeriods, 1)
	require.Len(t, w.VestingPeriods[0].Leaves, 2)
	assert.Equal(t, domain.WithholdingSeparate, w.VestingPeriods[0].Leaves[0].Method)
	assert.Equal(t, domain.WithholdingPayroll, w.VestingPeriods[0].Leaves[1].Method)

	assert.Equal(t, []domain.Dependent{
		{Name: "MARIA", CountsForDeduction: true},
		{Name: "PEDRO", CountsForDeduction: false},
	}, w.Dependents)

	assert.Equal(t, "456", workers[1].ID)
	require.Len(t, workers[1].Paychecks, 1)
	assert.Equal(t, 3, workers[1].Paychecks[0].Month)
	assert.Equal(t, 10.5, workers[1].Paychecks[0].Entries[0].Amount)

	assert.Equal(t, "999", workers[2].ID, "leave-only worker")
	assert.Empty(t, workers[2].Paychecks)
}

func TestLedgerRowToTaxableIncome(t *testing.T) {
	ledger := []rows.Row{{"matricula": "12345", "nome": "JOAO DA SILVA", "competencia": "12/2024", "codigo": "8781", "valor": "10.000,00"}}

	recs := NewService().Aggregate(BuildWorkers(ledger, nil, nil), 2024)
	require.Len(t, recs, 1)
	assert.Equal(t, "12345", recs[0].WorkerID)
	assert.Equal(t, 10000.0, recs[0].Total(domain.CategoryTaxableIncome))
}
