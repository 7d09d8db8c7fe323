package tax

import (
	"testing"

	"fiscal-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestApportionCharges(t *testing.T) {
	invoices := []domain.TaxInvoice{
		{Number: "101", ServiceTotal: 100},
		{Number: "102", ServiceTotal: 200},
		{Number: "000103", ServiceTotal: 50},
		{Number: "104", ServiceTotal: 0},
		{Number: "105", ServiceTotal: 0},
	}

	tests := []struct {
		name    string
		charges []domain.AnticipatedCharge
		want    []float64
	}{
		{"proportional", []domain.AnticipatedCharge{{Identifier: "DARF NFs 101 e 102", Amount: 30}}, []float64{10, 20, 0, 0, 0}},
		{"single reference takes all", []domain.AnticipatedCharge{{Identifier: "NF 103", Amount: 12.34}}, []float64{0, 0, 12.34, 0, 0}},
		{"leading zeros and repeats", []domain.AnticipatedCharge{{Identifier: "NF 0101/101", Amount: 7}}, []float64{7, 0, 0, 0, 0}},
		{"unresolvable", []domain.AnticipatedCharge{{Identifier: "DARF avulso 999", Amount: 50}}, []float64{0, 0, 0, 0, 0}},
		{"zero totals", []domain.AnticipatedCharge{{Identifier: "NFs 104 105", Amount: 50}}, []float64{0, 0, 0, 0, 0}},
		{"charges accumulate", []domain.AnticipatedCharge{
			{Identifier: "101", Amount: 1},
			{Identifier: "101-102", Amount: 3},
		}, []float64{2, 2, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApportionCharges(tt.charges, invoices))
		})
	}
}

func TestApportionChargesIgnoresDates(t *testing.T) {
	invoices := []domain.TaxInvoice{
		{Number: "3", ServiceTotal: 100},
		{Number: "15", ServiceTotal: 200},
		{Number: "16", ServiceTotal: 300},
	}

	got := ApportionCharges([]domain.AnticipatedCharge{{Identifier: "IRPJ 03/2025 NF 15/16", Amount: 50}}, invoices)
	assert.Equal(t, []float64{0, 20, 30}, got)

	got = ApportionCharges([]domain.AnticipatedCharge{{Identifier: "DARF pago em 16/03/2025 ref. NF 3", Amount: 10}}, invoices)
	assert.Equal(t, []float64{10, 0, 0}, got)
}
