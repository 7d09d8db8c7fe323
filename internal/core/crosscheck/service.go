// package crosscheck/service.go
package crosscheck

import (
	"fmt"
	"math"
	"strings"

	"fiscal-service/internal/core/money"
	"fiscal-service/internal/core/textnorm"
	"fiscal-service/internal/domain"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"
)

// EPSILON is the largest difference between ledger and informe amounts still reported as OK.
const EPSILON = money.Epsilon

// NameSimilarityThreshold is the lowest similarity at which two worker names are taken as
// the same person.
const NameSimilarityThreshold = 0.8

// Service defines the interface for ledger versus informe conference.
type Service interface {
	Compare(ledger []domain.AggregatedWorkerRecord, statements []domain.IncomeStatement) []domain.CrossCheckResult
}

type service struct {
	logger *zap.Logger
}

// Option configures the cross-check service.
type Option func(*service)

// WithLogger injects a structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a new cross-check service.
func NewService(opts ...Option) Service {
	s := &service{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// comparison pairs a ledger category with the matching informe amount.
type comparison struct {
	field     string
	category  domain.Category
	statement func(domain.IncomeStatement) float64
}

var comparisons = []comparison{
	{"rendimentos tributáveis", domain.CategoryTaxableIncome, func(s domain.IncomeStatement) float64 { return s.TaxableIncome }},
	{"previdência oficial", domain.CategorySocialSecurity, func(s domain.IncomeStatement) float64 { return s.SocialSecurity }},
	{"IRRF", domain.CategoryIncomeTax, func(s domain.IncomeStatement) float64 { return s.IncomeTax }},
	{"IRRF sobre 13º", domain.CategoryThirteenthIncomeTax, func(s domain.IncomeStatement) float64 { return s.ThirteenthIncomeTax }},
	{"PLR", domain.CategoryProfitShare, func(s domain.IncomeStatement) float64 { return s.ProfitShare }},
	{"IRRF sobre PLR", domain.CategoryProfitShareIncomeTax, func(s domain.IncomeStatement) float64 { return s.ProfitShareIncomeTax }},
	{"plano de saúde", domain.CategoryHealthPlan, func(s domain.IncomeStatement) float64 { return s.HealthPlanTotal() }},
}

// Compare matches ledger records and informes by worker id. Results follow ledger order,
// then informes without a ledger record in their own order.
func (s *service) Compare(ledger []domain.AggregatedWorkerRecord, statements []domain.IncomeStatement) []domain.CrossCheckResult {
	byWorker := make(map[string]domain.IncomeStatement)
	var order []string
	duplicated := make(map[string]bool)
	for _, st := range statements {
		key := workerKey(st.WorkerID)
		if key == "" {
			continue
		}
		if _, ok := byWorker[key]; ok {
			duplicated[key] = true
			continue
		}
		byWorker[key] = st
		order = append(order, key)
	}

	var results []domain.CrossCheckResult
	matched := make(map[string]bool)
	for i := range ledger {
		rec := &ledger[i]
		key := workerKey(rec.WorkerID)
		st, found := byWorker[key]
		if !found {
			results = append(results, domain.CrossCheckResult{
				WorkerID:   rec.WorkerID,
				Name:       rec.Name,
				StatusCode: domain.StatusInformeAusente,
				Alerts:     []string{"Informe de rendimentos não encontrado para a matrícula"},
			})
			continue
		}
		matched[key] = true
		result := compareWorker(rec, st)
		if duplicated[key] {
			result.Alerts = append(result.Alerts, "Mais de um informe para a mesma matrícula; usado o primeiro")
		}
		results = append(results, result)
	}

	for _, key := range order {
		if matched[key] {
			continue
		}
		st := byWorker[key]
		results = append(results, domain.CrossCheckResult{
			WorkerID:   st.WorkerID,
			Name:       st.Name,
			StatusCode: domain.StatusFolhaAusente,
			Alerts:     []string{"Matrícula do informe não encontrada na folha"},
		})
	}

	divergent := 0
	for _, r := range results {
		if r.StatusCode != domain.StatusOK {
			divergent++
		}
	}
	s.logger.Info("conferência concluída",
		zap.Int("ledger", len(ledger)),
		zap.Int("statements", len(statements)),
		zap.Int("divergent", divergent))

	return results
}

func compareWorker(rec *domain.AggregatedWorkerRecord, st domain.IncomeStatement) domain.CrossCheckResult {
	var statusCode domain.StatusCode = domain.StatusOK
	var alerts []string
	var divergences []domain.FieldDivergence

	for _, cmp := range comparisons {
		ledgerValue := money.Round2(rec.Total(cmp.category))
		statementValue := money.Round2(cmp.statement(st))
		difference := ledgerValue - statementValue
		if math.Abs(difference) > EPSILON {
			divergences = append(divergences, domain.FieldDivergence{
				Field:      cmp.field,
				Ledger:     ledgerValue,
				Statement:  statementValue,
				Difference: money.Round2(difference),
			})
			alerts = append(alerts, fmt.Sprintf("Discrepância em %s: folha=%.2f, informe=%.2f", cmp.field, ledgerValue, statementValue))
		}
	}
	if len(divergences) > 0 {
		statusCode = domain.StatusDivergencia
	}

	similarity := NameSimilarity(rec.Name, st.Name)
	if rec.Name != "" && st.Name != "" && similarity < NameSimilarityThreshold {
		if statusCode == domain.StatusOK {
			statusCode = domain.StatusNomeDivergente
		}
		alerts = append(alerts, fmt.Sprintf("Nome divergente: folha=%q, informe=%q", rec.Name, st.Name))
	}

	name := rec.Name
	if name == "" {
		name = st.Name
	}
	return domain.CrossCheckResult{
		WorkerID:       rec.WorkerID,
		Name:           name,
		StatusCode:     statusCode,
		NameSimilarity: money.Round2(similarity),
		Divergences:    divergences,
		Alerts:         alerts,
	}
}

// NameSimilarity is 1 minus the Levenshtein distance of the folded names over the longer
// length. Two empty names are identical; one empty name shares nothing with the other.
func NameSimilarity(a, b string) float64 {
	fa, fb := textnorm.Fold(a), textnorm.Fold(b)
	if fa == fb {
		return 1
	}
	longest := max(len([]rune(fa)), len([]rune(fb)))
	return 1 - float64(levenshtein.ComputeDistance(fa, fb))/float64(longest)
}

func workerKey(id string) string {
	id = strings.TrimSuffix(strings.TrimSpace(id), ".0")
	return strings.TrimLeft(id, "0")
}
