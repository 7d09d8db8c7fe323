package tax

import (
	"fiscal-service/internal/core/rows"
	"fiscal-service/internal/domain"
)

// Canonical fields of invoice, scheme and charge sheets.
const (
	FieldNumber     rows.Field = "numero"
	FieldIssueDate  rows.Field = "data_emissao"
	FieldClient     rows.Field = "cliente"
	FieldScheme     rows.Field = "esquema"
	FieldTotal      rows.Field = "valor_total"
	FieldIR         rows.Field = "ir"
	FieldCSLL       rows.Field = "csll"
	FieldPIS        rows.Field = "pis"
	FieldCOFINS     rows.Field = "cofins"
	FieldISS        rows.Field = "iss"
	FieldName       rows.Field = "nome"
	FieldRetention  rows.Field = "percentual"
	FieldIdentifier rows.Field = "identificador"
	FieldAmount     rows.Field = "valor"
)

var taxFields = map[domain.TaxType]rows.Field{
	domain.TaxIR:     FieldIR,
	domain.TaxCSLL:   FieldCSLL,
	domain.TaxPIS:    FieldPIS,
	domain.TaxCOFINS: FieldCOFINS,
	domain.TaxISS:    FieldISS,
}

// InvoiceSchema lists the header spellings of invoice sheets.
var InvoiceSchema = rows.Schema{
	FieldNumber:    {"Número", "Nº NF", "Nota", "Número da Nota", "NFS-e", "Número NFS-e", "NF"},
	FieldIssueDate: {"Data de Emissão", "Emissão", "Data", "Dt. Emissão"},
	FieldClient:    {"Cliente", "Tomador", "Razão Social do Tomador", "Nome do Tomador"},
	FieldScheme:    {"Esquema", "Mapeamento", "Regime de Retenção", "Tipo de Retenção"},
	FieldTotal:     {"Valor Total", "Valor dos Serviços", "Total", "Valor", "Valor Bruto"},
	FieldIR:        {"IR", "IRRF", "IR Retido", "IRPJ"},
	FieldCSLL:      {"CSLL", "CSLL Retida"},
	FieldPIS:       {"PIS", "PIS Retido"},
	FieldCOFINS:    {"COFINS", "COFINS Retida"},
	FieldISS:       {"ISS", "ISS Retido", "ISSQN"},
}

// SchemeSchema lists the header spellings of scheme tables.
var SchemeSchema = rows.Schema{
	FieldName:      {"Nome", "Esquema", "Mapeamento", "Descrição"},
	FieldRetention: {"Percentual", "% Retenção", "Retenção", "Percentual de Retenção", "Alíquota Total"},
	FieldIR:        {"IR", "IRRF", "% IR"},
	FieldCSLL:      {"CSLL", "% CSLL"},
	FieldPIS:       {"PIS", "% PIS"},
	FieldCOFINS:    {"COFINS", "% COFINS"},
	FieldISS:       {"ISS", "% ISS", "ISSQN"},
}

// ChargeSchema lists the header spellings of anticipated charge sheets.
var ChargeSchema = rows.Schema{
	FieldIdentifier: {"Identificador", "Descrição", "Histórico", "Referência", "Documento"},
	FieldAmount:     {"Valor", "Valor Pago", "Montante", "Total"},
}

var (
	invoiceCanon = rows.NewCanonicalizer(InvoiceSchema)
	schemeCanon  = rows.NewCanonicalizer(SchemeSchema)
	chargeCanon  = rows.NewCanonicalizer(ChargeSchema)
)

// InvoicesFromRows converts invoice sheet rows. Rows without number and total are skipped.
func InvoicesFromRows(in []rows.Row) []domain.TaxInvoice {
	out := []domain.TaxInvoice{}
	for _, r := range invoiceCanon.Canonicalize(in) {
		if !r.Has(FieldNumber) && !r.Has(FieldTotal) {
			continue
		}
		inv := domain.TaxInvoice{
			Number:           r.String(FieldNumber),
			Client:           r.String(FieldClient),
			SchemeName:       r.String(FieldScheme),
			ServiceTotal:     r.Money(FieldTotal),
			ObservedRetained: make(map[domain.TaxType]float64, len(taxFields)),
		}
		if d, ok := r.Date(FieldIssueDate); ok {
			inv.IssueDate = d
		}
		for t, f := range taxFields {
			if v := r.Money(f); v != 0 {
				inv.ObservedRetained[t] = v
			}
		}
		out = append(out, inv)
	}
	return out
}

// SchemesFromRows converts scheme table rows. Rows without a name are skipped.
func SchemesFromRows(in []rows.Row) []domain.TaxScheme {
	out := []domain.TaxScheme{}
	for _, r := range schemeCanon.Canonicalize(in) {
		s := domain.TaxScheme{
			Name:                r.String(FieldName),
			RetentionPercentage: r.Money(FieldRetention),
			Rates:               make(map[domain.TaxType]float64, len(taxFields)),
		}
		for t, f := range taxFields {
			s.Rates[t] = r.Money(f)
		}
		if normalizeScheme(&s) != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ChargesFromRows converts anticipated charge rows. Rows without amount are skipped.
func ChargesFromRows(in []rows.Row) []domain.AnticipatedCharge {
	out := []domain.AnticipatedCharge{}
	for _, r := range chargeCanon.Canonicalize(in) {
		amount := r.Money(FieldAmount)
		if amount == 0 {
			continue
		}
		out = append(out, domain.AnticipatedCharge{Identifier: r.String(FieldIdentifier), Amount: amount})
	}
	return out
}
