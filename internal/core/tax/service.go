// Package tax computes due, retained and pending amounts of invoice batches.
package tax

import (
	"strings"

	"fiscal-service/internal/core/money"
	"fiscal-service/internal/core/textnorm"
	"fiscal-service/internal/domain"

	"go.uber.org/zap"
)

// StatutoryRates are the fixed rates, as fractions, used for the due amount of each tax.
var StatutoryRates = map[domain.TaxType]float64{
	domain.TaxIR:     0.048,
	domain.TaxCSLL:   0.0288,
	domain.TaxPIS:    0.0065,
	domain.TaxCOFINS: 0.03,
	domain.TaxISS:    0.05,
}

// Cooperative act rule: invoices to this client under this scheme owe no PIS and COFINS.
const (
	cooperativeClient = "UNIMED"
	cooperativeScheme = "ATO COOPERATIVO"
)

// Request is one computation batch.
type Request struct {
	Invoices  []domain.TaxInvoice        `json:"invoices"`
	Schemes   []domain.TaxScheme         `json:"schemes"`
	Charges   []domain.AnticipatedCharge `json:"charges"`
	Quarterly *domain.QuarterlyInput     `json:"quarterly,omitempty"`
}

// Service define a interface para o serviço de apuração de tributos.
type Service interface {
	Compute(req Request) domain.TaxComputationResult
}

type service struct {
	logger *zap.Logger
}

// Option configures the tax service.
type Option func(*service)

// WithLogger injects a structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService cria uma nova instância do serviço de apuração.
func NewService(opts ...Option) Service {
	s := &service{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compute resolves each invoice's scheme, computes per-tax amounts, apportions anticipated
// charges and, when requested, the quarterly presumed-profit income tax.
func (s *service) Compute(req Request) domain.TaxComputationResult {
	result := domain.TaxComputationResult{
		Invoices: make([]domain.InvoiceTaxBreakdown, 0, len(req.Invoices)),
		Summary: domain.TaxSummary{
			Taxes: make(map[domain.TaxType]domain.TaxAmounts, len(domain.TaxTypes)),
		},
	}

	anticipated := ApportionCharges(req.Charges, req.Invoices)

	for i, inv := range req.Invoices {
		res := ResolveScheme(inv, req.Schemes)
		if res.Match == domain.MatchPercentage {
			s.logger.Debug("esquema resolvido por percentual",
				zap.String("invoice", inv.Number),
				zap.Float64("observed", res.ObservedPercentage),
				zap.String("scheme", res.Scheme.Name))
		}

		b := domain.InvoiceTaxBreakdown{
			Number:             inv.Number,
			Client:             inv.Client,
			ServiceTotal:       inv.ServiceTotal,
			Scheme:             res.Scheme,
			SchemeMatch:        res.Match,
			ObservedPercentage: money.Round2(res.ObservedPercentage),
			Taxes:              InvoiceTaxes(inv, res.Scheme),
			Anticipated:        anticipated[i],
		}
		result.Invoices = append(result.Invoices, b)
	}

	result.Summary = summarize(result.Invoices)

	if req.Quarterly != nil {
		q := Quarterly(req.Invoices, result.Invoices, *req.Quarterly)
		result.Quarterly = &q.Result
		for i := range result.Invoices {
			result.Invoices[i].QuarterlyShare = q.Shares[i]
		}
	}

	s.logger.Info("apuração concluída",
		zap.Int("invoices", len(req.Invoices)),
		zap.Int("schemes", len(req.Schemes)),
		zap.Float64("total", result.Summary.TotalInvoiced))
	return result
}

// InvoiceTaxes computes due, retained and pending amounts of every tax type. Without a scheme
// nothing is retained.
func InvoiceTaxes(inv domain.TaxInvoice, scheme *domain.TaxScheme) map[domain.TaxType]domain.TaxAmounts {
	exempt := cooperativeAct(inv, scheme)
	out := make(map[domain.TaxType]domain.TaxAmounts, len(domain.TaxTypes))
	for _, t := range domain.TaxTypes {
		due := money.Round2(inv.ServiceTotal * StatutoryRates[t])
		if exempt && (t == domain.TaxPIS || t == domain.TaxCOFINS) {
			due = 0
		}
		var retained float64
		if scheme != nil {
			retained = money.Round2(inv.ServiceTotal * scheme.Rates[t] / 100)
		}
		out[t] = domain.TaxAmounts{
			Due:      due,
			Retained: retained,
			Pending:  money.Round2(due - retained),
		}
	}
	return out
}

// cooperativeAct reports the named exemption for the cooperative client.
func cooperativeAct(inv domain.TaxInvoice, scheme *domain.TaxScheme) bool {
	name := inv.SchemeName
	if scheme != nil {
		name = scheme.Name
	}
	return strings.Contains(textnorm.Fold(inv.Client), cooperativeClient) &&
		textnorm.Fold(name) == cooperativeScheme
}

func summarize(invoices []domain.InvoiceTaxBreakdown) domain.TaxSummary {
	sum := domain.TaxSummary{Taxes: make(map[domain.TaxType]domain.TaxAmounts, len(domain.TaxTypes))}
	for _, b := range invoices {
		sum.TotalInvoiced += b.ServiceTotal
		sum.TotalAnticipated += b.Anticipated
		for _, t := range domain.TaxTypes {
			acc := sum.Taxes[t]
			acc.Due += b.Taxes[t].Due
			acc.Retained += b.Taxes[t].Retained
			acc.Pending += b.Taxes[t].Pending
			sum.Taxes[t] = acc
		}
	}
	sum.TotalInvoiced = money.Round2(sum.TotalInvoiced)
	sum.TotalAnticipated = money.Round2(sum.TotalAnticipated)
	for _, t := range domain.TaxTypes {
		acc := sum.Taxes[t]
		sum.Taxes[t] = domain.TaxAmounts{
			Due:      money.Round2(acc.Due),
			Retained: money.Round2(acc.Retained),
			Pending:  money.Round2(acc.Pending),
		}
	}
	return sum
}
