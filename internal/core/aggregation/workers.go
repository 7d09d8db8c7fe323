package aggregation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fiscal-service/internal/core/rows"
	"fiscal-service/internal/core/textnorm"
	"fiscal-service/internal/domain"
)

// Canonical ledger fields.
const (
	FieldWorkerID      rows.Field = "matricula"
	FieldName          rows.Field = "nome"
	FieldTaxID         rows.Field = "cpf"
	FieldCompetence    rows.Field = "competencia"
	FieldYear          rows.Field = "ano"
	FieldMonth         rows.Field = "mes"
	FieldCode          rows.Field = "codigo"
	FieldAmount        rows.Field = "valor"
	FieldDescription   rows.Field = "descricao"
	FieldIncomeTaxBase rows.Field = "base_irrf"

	FieldPayoutDate        rows.Field = "data_pagamento"
	FieldPeriodStart       rows.Field = "inicio_periodo"
	FieldPeriodEnd         rows.Field = "fim_periodo"
	FieldGross             rows.Field = "bruto"
	FieldSocialSecurity    rows.Field = "inss"
	FieldIncomeTax         rows.Field = "irrf"
	FieldThirteenthAdvance rows.Field = "adiantamento_13"
	FieldMethod            rows.Field = "metodo"

	FieldDependentName rows.Field = "dependente"
	FieldDeducts       rows.Field = "deduz_ir"
)

// LedgerSchema lists the header spellings seen in payroll exports.
var LedgerSchema = rows.Schema{
	FieldWorkerID:      {"Matrícula", "Cod. Funcionário", "Código do Funcionário", "Registro", "Chapa", "ID Funcionário"},
	FieldName:          {"Nome", "Funcionário", "Nome do Funcionário", "Colaborador", "Empregado"},
	FieldTaxID:         {"CPF", "CPF do Funcionário"},
	FieldCompetence:    {"Competência", "Referência", "Mês/Ano", "Período", "Mes Ano"},
	FieldYear:          {"Ano", "Exercício", "Ano Base"},
	FieldMonth:         {"Mês"},
	FieldCode:          {"Código", "Evento", "Cód. Evento", "Verba", "Rubrica", "Código Evento"},
	FieldAmount:        {"Valor", "Vlr", "Valor do Evento", "Montante", "Valor Lançamento"},
	FieldDescription:   {"Descrição", "Histórico", "Nome do Evento", "Descrição do Evento"},
	FieldIncomeTaxBase: {"Base IRRF", "Base de Cálculo IRRF", "Base Cálculo IR", "baseCalcIncomeTax", "Base IR"},
}

// LeaveSchema lists the header spellings of vacation payout exports.
var LeaveSchema = rows.Schema{
	FieldWorkerID:          {"Matrícula", "Cod. Funcionário", "Registro", "Chapa"},
	FieldPayoutDate:        {"Data de Pagamento", "Pagamento", "Data Pagto", "Dt. Pagamento"},
	FieldPeriodStart:       {"Início Período Aquisitivo", "Início Aquisitivo", "Inicio PA"},
	FieldPeriodEnd:         {"Fim Período Aquisitivo", "Fim Aquisitivo", "Fim PA"},
	FieldGross:             {"Valor Bruto", "Bruto Férias", "Total Férias"},
	FieldSocialSecurity:    {"INSS", "INSS Férias"},
	FieldIncomeTax:         {"IRRF", "IRRF Férias", "IR Férias"},
	FieldIncomeTaxBase:     {"Base IRRF", "Base de Cálculo IRRF", "Base IR Férias"},
	FieldThirteenthAdvance: {"Adiantamento 13º", "1ª Parcela 13º", "Adiant. 13 Salário"},
	FieldMethod:            {"Método", "Cálculo IR", "Tributação"},
}

// DependentSchema lists the header spellings of dependent registers.
var DependentSchema = rows.Schema{
	FieldWorkerID:      {"Matrícula", "Cod. Funcionário", "Registro", "Chapa"},
	FieldDependentName: {"Nome do Dependente", "Dependente"},
	FieldDeducts:       {"Dedução IR", "Dependente IR", "Deduz IR"},
}

var (
	ledgerCanon    = rows.NewCanonicalizer(LedgerSchema)
	leaveCanon     = rows.NewCanonicalizer(LeaveSchema)
	dependentCanon = rows.NewCanonicalizer(DependentSchema)
)

type paycheckKey struct {
	year, month int
}

// BuildWorkers canonicalises raw ledger, leave and dependent rows and groups them into
// workers. Workers follow the order in which they first appear; paychecks are sorted by
// competence. Rows without a worker id or a usable competence are ignored.
func BuildWorkers(ledgerRows, leaveRows, dependentRows []rows.Row) []domain.Worker {
	var order []string
	workers := map[string]*domain.Worker{}
	paychecks := map[string]map[paycheckKey]*domain.Paycheck{}

	worker := func(id string) *domain.Worker {
		w, ok := workers[id]
		if !ok {
			w = &domain.Worker{ID: id, Paychecks: []domain.Paycheck{}}
			workers[id] = w
			paychecks[id] = map[paycheckKey]*domain.Paycheck{}
			order = append(order, id)
		}
		return w
	}

	for _, r := range ledgerCanon.Canonicalize(ledgerRows) {
		id := workerID(r)
		if id == "" {
			continue
		}
		year, month, ok := competence(r)
		if !ok {
			continue
		}
		w := worker(id)
		if w.Name == "" {
			w.Name = strings.ToUpper(r.String(FieldName))
		}
		if w.TaxID == "" {
			w.TaxID = digitsOnly(r.String(FieldTaxID))
		}

		key := paycheckKey{year, month}
		pc, ok := paychecks[id][key]
		if !ok {
			pc = &domain.Paycheck{Year: year, Month: month, Entries: []domain.PaycheckEntry{}, SourceLabel: sourceLabel(year, month)}
			paychecks[id][key] = pc
		}
		if r.Has(FieldIncomeTaxBase) {
			base := r.Money(FieldIncomeTaxBase)
			if pc.BaseCalcIncomeTax != nil {
				base += *pc.BaseCalcIncomeTax
			}
			pc.BaseCalcIncomeTax = &base
		}
		if r.Has(FieldCode) {
			pc.Entries = append(pc.Entries, domain.PaycheckEntry{
				Code:        normalizeCode(r.String(FieldCode)),
				Amount:      r.Money(FieldAmount),
				Description: r.String(FieldDescription),
			})
		}
	}

	for _, r := range leaveCanon.Canonicalize(leaveRows) {
		id := workerID(r)
		payout, ok := r.Date(FieldPayoutDate)
		if id == "" || !ok {
			continue
		}
		w := worker(id)
		start, _ := r.Date(FieldPeriodStart)
		end, _ := r.Date(FieldPeriodEnd)
		vp := vestingPeriod(w, start, end)
		vp.Leaves = append(vp.Leaves, domain.LeaveEvent{
			PayoutDate:        payout,
			Gross:             r.Money(FieldGross),
			SocialSecurity:    r.Money(FieldSocialSecurity),
			IncomeTax:         r.Money(FieldIncomeTax),
			IncomeTaxBase:     r.Money(FieldIncomeTaxBase),
			ThirteenthAdvance: r.Money(FieldThirteenthAdvance),
			Method:            withholdingMethod(r.String(FieldMethod)),
		})
	}

	for _, r := range dependentCanon.Canonicalize(dependentRows) {
		id := workerID(r)
		if id == "" {
			continue
		}
		w, ok := workers[id]
		if !ok {
			continue
		}
		w.Dependents = append(w.Dependents, domain.Dependent{
			Name:               strings.ToUpper(r.String(FieldDependentName)),
			CountsForDeduction: r.Flag(FieldDeducts),
		})
	}

	out := make([]domain.Worker, 0, len(order))
	for _, id := range order {
		w := workers[id]
		keys := make([]paycheckKey, 0, len(paychecks[id]))
		for k := range paychecks[id] {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].year != keys[j].year {
				return keys[i].year < keys[j].year
			}
			return keys[i].month < keys[j].month
		})
		for _, k := range keys {
			w.Paychecks = append(w.Paychecks, *paychecks[id][k])
		}
		out = append(out, *w)
	}
	return out
}

func workerID(r rows.Record) string {
	id := strings.TrimSuffix(r.String(FieldWorkerID), ".0")
	return strings.TrimLeft(id, "0")
}

func competence(r rows.Record) (year, month int, ok bool) {
	if r.Has(FieldCompetence) {
		if y, m, found := r.Competence(FieldCompetence); found {
			return y, m, true
		}
	}
	y, found := r.Int(FieldYear)
	if !found {
		return 0, 0, false
	}
	m, _ := r.Int(FieldMonth)
	return y, m, true
}

func sourceLabel(year, month int) string {
	if month == 0 {
		return fmt.Sprintf("%d", year)
	}
	return fmt.Sprintf("%02d/%d", month, year)
}

func vestingPeriod(w *domain.Worker, start, end time.Time) *domain.VestingPeriod {
	for i := range w.VestingPeriods {
		if w.VestingPeriods[i].Start.Equal(start) && w.VestingPeriods[i].End.Equal(end) {
			return &w.VestingPeriods[i]
		}
	}
	w.VestingPeriods = append(w.VestingPeriods, domain.VestingPeriod{Start: start, End: end, Leaves: []domain.LeaveEvent{}})
	return &w.VestingPeriods[len(w.VestingPeriods)-1]
}

// withholdingMethod reads the "método" column; anything mentioning a separate computation
// selects WithholdingSeparate.
func withholdingMethod(val string) domain.WithholdingMethod {
	folded := textnorm.Fold(val)
	if strings.Contains(folded, "SEPARAD") || strings.Contains(folded, "EXCLUSIV") || folded == "S" {
		return domain.WithholdingSeparate
	}
	return domain.WithholdingPayroll
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
