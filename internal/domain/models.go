// package domain/models.go
package domain

import (
	"time"
)

// Document is one text-layer document handed over by the PDF collaborator.
// Err is set when the collaborator could not decode the file at all.
type Document struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Text     string `json:"-"`
	Err      error  `json:"-"`
}

// --- Modelos de NFS-e ---

// Party holds the identity and address fields of an invoice issuer or taker.
type Party struct {
	Document              string `json:"document"`
	Name                  string `json:"name"`
	MunicipalRegistration string `json:"municipal_registration,omitempty"`
	Address               string `json:"address,omitempty"`
	City                  string `json:"city,omitempty"`
	State                 string `json:"state,omitempty"`
	Email                 string `json:"email,omitempty"`
}

// InvoiceRecord is the normalized content of one NFS-e.
// Each field is extracted independently; NetValue is not reconciled against the other amounts.
type InvoiceRecord struct {
	DocumentID         string   `json:"document_id"`
	Filename           string   `json:"filename"`
	Number             string   `json:"number"`
	Series             string   `json:"series,omitempty"`
	AccessKey          string   `json:"access_key,omitempty"`
	VerificationCode   string   `json:"verification_code,omitempty"`
	IssueDate          string   `json:"issue_date,omitempty"`
	Competence         string   `json:"competence,omitempty"`
	Issuer             Party    `json:"issuer"`
	Taker              Party    `json:"taker"`
	ServiceCode        string   `json:"service_code,omitempty"`
	ServiceDescription string   `json:"service_description,omitempty"`
	ServiceValue       float64  `json:"service_value"`
	Deductions         float64  `json:"deductions"`
	Discount           float64  `json:"discount"`
	IR                 float64  `json:"ir"`
	INSS               float64  `json:"inss"`
	CSLL               float64  `json:"csll"`
	PIS                float64  `json:"pis"`
	COFINS             float64  `json:"cofins"`
	ISS                float64  `json:"iss"`
	ISSRate            float64  `json:"iss_rate"`
	NetValue           float64  `json:"net_value"`
	Confidence         float64  `json:"confidence"`
	Errors             []string `json:"errors"`
	SourceText         string   `json:"-"`
}

// TotalTaxes sums every retained tax amount found on the invoice.
func (r InvoiceRecord) TotalTaxes() float64 {
	return r.IR + r.INSS + r.CSLL + r.PIS + r.COFINS + r.ISS
}

// --- Modelos de Informe de Rendimentos ---

// HealthPlanEntry is one health-plan line of an income statement.
type HealthPlanEntry struct {
	Beneficiary string  `json:"beneficiary"`
	Amount      float64 `json:"amount"`
}

// IncomeStatement is one worker block of an "informe de rendimentos".
type IncomeStatement struct {
	DocumentID           string            `json:"document_id"`
	Filename             string            `json:"filename"`
	WorkerID             string            `json:"worker_id"`
	Name                 string            `json:"name"`
	TaxID                string            `json:"tax_id,omitempty"`
	TaxableIncome        float64           `json:"taxable_income"`
	SocialSecurity       float64           `json:"social_security"`
	IncomeTax            float64           `json:"income_tax"`
	ThirteenthGross      float64           `json:"thirteenth_gross"`
	ThirteenthIncomeTax  float64           `json:"thirteenth_income_tax"`
	ProfitShare          float64           `json:"profit_share"`
	ProfitShareIncomeTax float64           `json:"profit_share_income_tax"`
	HealthPlan           []HealthPlanEntry `json:"health_plan"`
	Errors               []string          `json:"errors"`
}

// HealthPlanTotal sums the amounts of every health-plan entry.
func (s IncomeStatement) HealthPlanTotal() float64 {
	var total float64
	for _, e := range s.HealthPlan {
		total += e.Amount
	}
	return total
}

// --- Modelos de folha de pagamento ---

// PaycheckEntry representa um lançamento de contracheque.
type PaycheckEntry struct {
	Code        string  `json:"code"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// Paycheck representa um contracheque.
type Paycheck struct {
	Year              int             `json:"year"`
	Month             int             `json:"month,omitempty"`
	Entries           []PaycheckEntry `json:"entries"`
	BaseCalcIncomeTax *float64        `json:"base_calc_income_tax,omitempty"`
	SourceLabel       string          `json:"source_label"`
}

// Dependent is a worker dependent; only flagged ones reduce the 13th-salary base.
type Dependent struct {
	Name               string `json:"name"`
	CountsForDeduction bool   `json:"counts_for_deduction"`
}

// WithholdingMethod selects how income tax was withheld on a leave payout.
type WithholdingMethod int

// Constants for the leave withholding methods.
const (
	// WithholdingPayroll means the tax was computed together with the monthly payroll,
	// so tax and base already arrive through the paycheck entries.
	WithholdingPayroll WithholdingMethod = iota
	// WithholdingSeparate means the tax was withheld on the payout itself.
	WithholdingSeparate
)

// LeaveEvent is one vacation payout inside a vesting period.
type LeaveEvent struct {
	PayoutDate        time.Time         `json:"payout_date"`
	Gross             float64           `json:"gross"`
	SocialSecurity    float64           `json:"social_security"`
	IncomeTax         float64           `json:"income_tax"`
	IncomeTaxBase     float64           `json:"income_tax_base"`
	ThirteenthAdvance float64           `json:"thirteenth_advance"`
	Method            WithholdingMethod `json:"method"`
}

// VestingPeriod is a "período aquisitivo" and the leaves paid against it.
type VestingPeriod struct {
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Leaves []LeaveEvent `json:"leaves"`
}

// Worker groups every payroll fact known about one matrícula.
type Worker struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	TaxID          string          `json:"tax_id,omitempty"`
	Paychecks      []Paycheck      `json:"paychecks"`
	Dependents     []Dependent     `json:"dependents,omitempty"`
	VestingPeriods []VestingPeriod `json:"vesting_periods,omitempty"`
}

// --- Modelos de agregação ---

// Category is a semantic bucket of the annual worker record.
type Category string

// Constants for aggregation categories.
const (
	CategoryTaxableIncome            Category = "rendimentos_tributaveis"
	CategorySocialSecurity           Category = "previdencia_oficial"
	CategoryIncomeTax                Category = "irrf"
	CategoryIncomeTaxBase            Category = "base_irrf"
	CategoryThirteenthNet            Category = "decimo_terceiro_liquido"
	CategoryThirteenthIncomeTax      Category = "irrf_decimo_terceiro"
	CategoryThirteenthSocialSecurity Category = "previdencia_decimo_terceiro"
	CategoryProfitShare              Category = "plr"
	CategoryProfitShareIncomeTax     Category = "irrf_plr"
	CategoryHealthPlan               Category = "plano_saude"
	CategoryExemptIncome             Category = "rendimentos_isentos"
)

// Categories lists every category in reporting order.
var Categories = []Category{
	CategoryTaxableIncome,
	CategorySocialSecurity,
	CategoryIncomeTax,
	CategoryIncomeTaxBase,
	CategoryThirteenthNet,
	CategoryThirteenthIncomeTax,
	CategoryThirteenthSocialSecurity,
	CategoryProfitShare,
	CategoryProfitShareIncomeTax,
	CategoryHealthPlan,
	CategoryExemptIncome,
}

// Origin tells where a detail entry came from.
type Origin string

// Constants for detail entry origins.
const (
	OriginPaycheck         Origin = "contracheque"
	OriginLeavePayout      Origin = "ferias"
	OriginAnnualAdjustment Origin = "ajuste_anual"
)

// DetailEntry is one signed contribution to a category total.
type DetailEntry struct {
	Origin      Origin  `json:"origin"`
	Code        string  `json:"code,omitempty"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

// CategoryTotal keeps a running total together with the entries that produced it.
type CategoryTotal struct {
	Total   float64       `json:"total"`
	Details []DetailEntry `json:"details"`
}

// Add appends an entry and moves the running total by its signed amount.
func (c *CategoryTotal) Add(entry DetailEntry) {
	c.Details = append(c.Details, entry)
	c.Total += entry.Amount
}

// DetailSum recomputes the total from the details, in insertion order.
func (c *CategoryTotal) DetailSum() float64 {
	var sum float64
	for _, d := range c.Details {
		sum += d.Amount
	}
	return sum
}

// AggregatedWorkerRecord is the annual fold of one worker's payroll.
type AggregatedWorkerRecord struct {
	WorkerID      string                      `json:"worker_id"`
	Name          string                      `json:"name"`
	TaxID         string                      `json:"tax_id,omitempty"`
	Year          int                         `json:"year"`
	Categories    map[Category]*CategoryTotal `json:"categories"`
	UnmappedCodes []string                    `json:"unmapped_codes,omitempty"`
}

// NewAggregatedWorkerRecord returns a record with every category present and empty.
func NewAggregatedWorkerRecord(w Worker, year int) *AggregatedWorkerRecord {
	rec := &AggregatedWorkerRecord{
		WorkerID:   w.ID,
		Name:       w.Name,
		TaxID:      w.TaxID,
		Year:       year,
		Categories: make(map[Category]*CategoryTotal, len(Categories)),
	}
	for _, c := range Categories {
		rec.Categories[c] = &CategoryTotal{Details: []DetailEntry{}}
	}
	return rec
}

// Category returns the bucket for c, creating it if needed.
func (r *AggregatedWorkerRecord) Category(c Category) *CategoryTotal {
	if r.Categories == nil {
		r.Categories = make(map[Category]*CategoryTotal)
	}
	ct, ok := r.Categories[c]
	if !ok {
		ct = &CategoryTotal{Details: []DetailEntry{}}
		r.Categories[c] = ct
	}
	return ct
}

// Total returns the running total of c, zero when absent.
func (r *AggregatedWorkerRecord) Total(c Category) float64 {
	if ct, ok := r.Categories[c]; ok {
		return ct.Total
	}
	return 0
}

// --- Modelos de apuração de tributos ---

// TaxType identifies one of the five withheld taxes.
type TaxType string

// Constants for tax types.
const (
	TaxIR     TaxType = "IR"
	TaxCSLL   TaxType = "CSLL"
	TaxPIS    TaxType = "PIS"
	TaxCOFINS TaxType = "COFINS"
	TaxISS    TaxType = "ISS"
)

// TaxTypes lists every tax type in reporting order.
var TaxTypes = []TaxType{TaxIR, TaxCSLL, TaxPIS, TaxCOFINS, TaxISS}

// TaxScheme is a named withholding combination. Rates are percentages (1.5 means 1,5%).
type TaxScheme struct {
	Name                string              `json:"name" yaml:"name"`
	RetentionPercentage float64             `json:"retention_percentage" yaml:"retention_percentage"`
	Rates               map[TaxType]float64 `json:"rates" yaml:"rates"`
}

// TaxInvoice is the canonical invoice row consumed by the tax engine.
type TaxInvoice struct {
	Number           string              `json:"number"`
	IssueDate        time.Time           `json:"issue_date"`
	Client           string              `json:"client"`
	SchemeName       string              `json:"scheme_name,omitempty"`
	ServiceTotal     float64             `json:"service_total"`
	ObservedRetained map[TaxType]float64 `json:"observed_retained,omitempty"`
}

// ObservedTaxAmount sums the retained amounts printed on the invoice.
func (i TaxInvoice) ObservedTaxAmount() float64 {
	var total float64
	for _, t := range TaxTypes {
		total += i.ObservedRetained[t]
	}
	return total
}

// AnticipatedCharge is a tax paid in advance that references invoices in its identifier.
type AnticipatedCharge struct {
	Identifier string  `json:"identifier"`
	Amount     float64 `json:"amount"`
}

// TaxAmounts holds due, retained and pending values of one tax.
type TaxAmounts struct {
	Due      float64 `json:"due"`
	Retained float64 `json:"retained"`
	Pending  float64 `json:"pending"`
}

// SchemeMatch tells how the scheme of an invoice was resolved.
type SchemeMatch string

// Constants for scheme resolution kinds.
const (
	MatchExact      SchemeMatch = "exata"
	MatchNormalized SchemeMatch = "normalizada"
	MatchPercentage SchemeMatch = "percentual"
	MatchNone       SchemeMatch = "nenhuma"
)

// InvoiceTaxBreakdown is the per-invoice output of the tax engine.
type InvoiceTaxBreakdown struct {
	Number             string                 `json:"number"`
	Client             string                 `json:"client"`
	ServiceTotal       float64                `json:"service_total"`
	Scheme             *TaxScheme             `json:"scheme,omitempty"`
	SchemeMatch        SchemeMatch            `json:"scheme_match"`
	ObservedPercentage float64                `json:"observed_percentage"`
	Taxes              map[TaxType]TaxAmounts `json:"taxes"`
	Anticipated        float64                `json:"anticipated"`
	QuarterlyShare     float64                `json:"quarterly_share"`
}

// TaxSummary aggregates the per-invoice breakdowns.
type TaxSummary struct {
	TotalInvoiced    float64                `json:"total_invoiced"`
	Taxes            map[TaxType]TaxAmounts `json:"taxes"`
	TotalAnticipated float64                `json:"total_anticipated"`
}

// QuarterlyInput carries the figures the quarterly computation takes from outside the batch.
type QuarterlyInput struct {
	InvestmentResult  float64 `json:"investment_result"`
	ExternalRetention float64 `json:"external_retention"`
}

// QuarterlyResult is the presumed-profit income tax computation of a batch.
type QuarterlyResult struct {
	TotalInvoiced     float64 `json:"total_invoiced"`
	TieredRateApplied bool    `json:"tiered_rate_applied"`
	PresumedProfit    float64 `json:"presumed_profit"`
	InvestmentResult  float64 `json:"investment_result"`
	ComputedBase      float64 `json:"computed_base"`
	IncomeTax         float64 `json:"income_tax"`
	Surcharge         float64 `json:"surcharge"`
	TotalDue          float64 `json:"total_due"`
	RetainedTotal     float64 `json:"retained_total"`
	Payable           float64 `json:"payable"`
	Credit            float64 `json:"credit"`
}

// TaxComputationResult is the full output of one tax computation run.
type TaxComputationResult struct {
	Invoices  []InvoiceTaxBreakdown `json:"invoices"`
	Summary   TaxSummary            `json:"summary"`
	Quarterly *QuarterlyResult      `json:"quarterly,omitempty"`
}

// --- Modelos de conferência ---

// StatusCode defines a type for cross-check status codes.
type StatusCode int

// Constants defining possible cross-check results.
const (
	StatusOK             StatusCode = 0
	StatusDivergencia    StatusCode = 1
	StatusInformeAusente StatusCode = 2
	StatusFolhaAusente   StatusCode = 3
	StatusNomeDivergente StatusCode = 4
)

// FieldDivergence holds the two sides of a mismatching amount.
type FieldDivergence struct {
	Field      string  `json:"field"`
	Ledger     float64 `json:"ledger"`
	Statement  float64 `json:"statement"`
	Difference float64 `json:"difference"`
}

// CrossCheckResult is the comparison of one worker's ledger fold against its informe.
type CrossCheckResult struct {
	WorkerID       string            `json:"worker_id"`
	Name           string            `json:"name"`
	StatusCode     StatusCode        `json:"status_code"`
	NameSimilarity float64           `json:"name_similarity"`
	Divergences    []FieldDivergence `json:"divergences,omitempty"`
	Alerts         []string          `json:"alerts,omitempty"`
}
