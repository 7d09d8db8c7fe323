// Package aggregation folds payroll ledgers into annual per-worker category totals.
package aggregation

import (
	"fmt"

	"fiscal-service/internal/core/money"
	"fiscal-service/internal/domain"

	"go.uber.org/zap"
)

// Service define a interface para o serviço de agregação de folha.
type Service interface {
	Aggregate(workers []domain.Worker, year int) []domain.AggregatedWorkerRecord
	AggregateWorker(w domain.Worker, year int) (*domain.AggregatedWorkerRecord, bool)
}

type service struct {
	logger *zap.Logger
}

// Option configures the aggregation service.
type Option func(*service)

// WithLogger injects a structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService cria uma nova instância do serviço de agregação.
func NewService(opts ...Option) Service {
	s := &service{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Aggregate returns one record per worker with activity in year, in input order.
func (s *service) Aggregate(workers []domain.Worker, year int) []domain.AggregatedWorkerRecord {
	out := []domain.AggregatedWorkerRecord{}
	for _, w := range workers {
		rec, ok := s.AggregateWorker(w, year)
		if !ok {
			continue
		}
		out = append(out, *rec)
	}
	s.logger.Info("folha agregada", zap.Int("year", year), zap.Int("workers_in", len(workers)), zap.Int("workers_out", len(out)))
	return out
}

// AggregateWorker folds one worker. It reports false when no paycheck and no leave payout
// falls in year.
func (s *service) AggregateWorker(w domain.Worker, year int) (*domain.AggregatedWorkerRecord, bool) {
	if !hasActivity(w, year) {
		return nil, false
	}

	rec := domain.NewAggregatedWorkerRecord(w, year)
	seen := map[string]bool{}

	for _, pc := range w.Paychecks {
		if pc.Year != year {
			continue
		}
		for _, e := range pc.Entries {
			rule, ok := lookupCode(e.Code)
			if !ok {
				if !seen[e.Code] {
					seen[e.Code] = true
					rec.UnmappedCodes = append(rec.UnmappedCodes, e.Code)
				}
				s.logger.Debug("código sem mapeamento", zap.String("worker", w.ID), zap.String("code", e.Code))
				continue
			}
			applyEntry(rec, rule, e)
		}
		if pc.BaseCalcIncomeTax != nil {
			rec.Category(domain.CategoryIncomeTaxBase).Add(domain.DetailEntry{
				Origin:      domain.OriginPaycheck,
				Description: pc.SourceLabel,
				Amount:      *pc.BaseCalcIncomeTax,
			})
		}
	}

	applied := false
	for _, vp := range w.VestingPeriods {
		for _, leave := range vp.Leaves {
			if leave.PayoutDate.Year() != year {
				continue
			}
			applyLeave(rec, leave)
			applyDependentDeduction(rec, w.Dependents, &applied)
		}
	}
	applyDependentDeduction(rec, w.Dependents, &applied)

	return rec, true
}

func hasActivity(w domain.Worker, year int) bool {
	for _, pc := range w.Paychecks {
		if pc.Year == year {
			return true
		}
	}
	for _, vp := range w.VestingPeriods {
		for _, leave := range vp.Leaves {
			if leave.PayoutDate.Year() == year {
				return true
			}
		}
	}
	return false
}

func applyEntry(rec *domain.AggregatedWorkerRecord, rule codeRule, e domain.PaycheckEntry) {
	description := e.Description
	if description == "" {
		description = rule.Description
	}
	amount := e.Amount
	if rule.Reversing {
		amount = -amount
	}
	rec.Category(rule.Category).Add(domain.DetailEntry{
		Origin:      domain.OriginPaycheck,
		Code:        e.Code,
		Description: description,
		Amount:      amount,
	})
	if rule.Offset != "" {
		rec.Category(rule.Offset).Add(domain.DetailEntry{
			Origin:      domain.OriginPaycheck,
			Code:        e.Code,
			Description: description,
			Amount:      -amount,
		})
	}
}

func applyLeave(rec *domain.AggregatedWorkerRecord, leave domain.LeaveEvent) {
	description := fmt.Sprintf("férias pagas em %s", leave.PayoutDate.Format("02/01/2006"))
	add := func(c domain.Category, amount float64) {
		if amount == 0 {
			return
		}
		rec.Category(c).Add(domain.DetailEntry{Origin: domain.OriginLeavePayout, Description: description, Amount: amount})
	}

	add(domain.CategoryTaxableIncome, leave.Gross)
	add(domain.CategorySocialSecurity, leave.SocialSecurity)
	if leave.Method == domain.WithholdingSeparate {
		add(domain.CategoryIncomeTax, leave.IncomeTax)
		base := leave.IncomeTaxBase
		if base == 0 {
			base = money.Round2(leave.Gross - leave.SocialSecurity)
		}
		add(domain.CategoryIncomeTaxBase, base)
	}
	add(domain.CategoryThirteenthNet, leave.ThirteenthAdvance)
}

// applyDependentDeduction subtracts the dependent allowance from the 13th-salary base once.
// It waits while that base is still zero.
func applyDependentDeduction(rec *domain.AggregatedWorkerRecord, deps []domain.Dependent, applied *bool) {
	if *applied {
		return
	}
	count := 0
	for _, d := range deps {
		if d.CountsForDeduction {
			count++
		}
	}
	if count == 0 || rec.Total(domain.CategoryThirteenthNet) == 0 {
		return
	}
	rec.Category(domain.CategoryThirteenthNet).Add(domain.DetailEntry{
		Origin:      domain.OriginAnnualAdjustment,
		Description: fmt.Sprintf("dedução de %d dependente(s)", count),
		Amount:      -money.Round2(float64(count) * DependentDeduction),
	})
	*applied = true
}
