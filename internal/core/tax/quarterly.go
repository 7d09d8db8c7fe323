package tax

import (
	"fiscal-service/internal/core/money"
	"fiscal-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Quarterly presumed-profit parameters.
const (
	PresumptionRate    = 0.32
	TieredMultiplier   = 1.1
	AnnualThreshold    = 5_000_000.0
	TieredCutoverYear  = 2025
	IncomeTaxRate      = 0.15
	SurchargeRate      = 0.10
	SurchargeThreshold = 60_000.0
)

// QuarterlyOutcome is the batch result plus the amount attributed to each invoice.
type QuarterlyOutcome struct {
	Result domain.QuarterlyResult
	Shares []float64
}

// Quarterly computes the presumed-profit income tax of a quarter and apportions what is left
// to pay across the invoices by their share of the total. The last invoice absorbs the
// rounding remainder so the shares add up to Payable exactly.
func Quarterly(invoices []domain.TaxInvoice, breakdowns []domain.InvoiceTaxBreakdown, in domain.QuarterlyInput) QuarterlyOutcome {
	total := decimal.Zero
	tiered := false
	for _, inv := range invoices {
		total = total.Add(decimal.NewFromFloat(inv.ServiceTotal))
		if inv.IssueDate.Year() > TieredCutoverYear {
			tiered = true
		}
	}

	rate := decimal.NewFromFloat(PresumptionRate)
	quarterLimit := decimal.NewFromFloat(AnnualThreshold).Div(decimal.NewFromInt(4))
	presumed := total.Mul(rate)
	applied := tiered && total.GreaterThan(quarterLimit)
	if applied {
		excess := total.Sub(quarterLimit)
		presumed = quarterLimit.Mul(rate).Add(excess.Mul(rate).Mul(decimal.NewFromFloat(TieredMultiplier)))
	}
	presumed = presumed.Round(2)

	base := presumed.Add(decimal.NewFromFloat(in.InvestmentResult)).Round(2)
	incomeTax := base.Mul(decimal.NewFromFloat(IncomeTaxRate)).Round(2)
	surcharge := decimal.Zero
	if over := base.Sub(decimal.NewFromFloat(SurchargeThreshold)); over.IsPositive() {
		surcharge = over.Mul(decimal.NewFromFloat(SurchargeRate)).Round(2)
	}
	due := incomeTax.Add(surcharge)

	retained := decimal.NewFromFloat(in.ExternalRetention)
	for _, b := range breakdowns {
		retained = retained.Add(decimal.NewFromFloat(b.Taxes[domain.TaxIR].Retained))
	}
	retained = retained.Round(2)

	payable := due.Sub(retained)
	credit := decimal.Zero
	if payable.IsNegative() {
		credit = payable.Neg()
		payable = decimal.Zero
	}

	return QuarterlyOutcome{
		Result: domain.QuarterlyResult{
			TotalInvoiced:     total.Round(2).InexactFloat64(),
			TieredRateApplied: applied,
			PresumedProfit:    presumed.InexactFloat64(),
			InvestmentResult:  money.Round2(in.InvestmentResult),
			ComputedBase:      base.InexactFloat64(),
			IncomeTax:         incomeTax.InexactFloat64(),
			Surcharge:         surcharge.InexactFloat64(),
			TotalDue:          due.InexactFloat64(),
			RetainedTotal:     retained.InexactFloat64(),
			Payable:           payable.InexactFloat64(),
			Credit:            credit.InexactFloat64(),
		},
		Shares: apportionExact(invoices, total, payable),
	}
}

// apportionExact splits amount by each invoice's share of total, rounding every share to
// cents except the last, which takes whatever remains.
func apportionExact(invoices []domain.TaxInvoice, total, amount decimal.Decimal) []float64 {
	shares := make([]float64, len(invoices))
	if len(invoices) == 0 {
		return shares
	}
	last := len(invoices) - 1
	allocated := decimal.Zero
	if !total.IsZero() {
		for i := 0; i < last; i++ {
			share := decimal.NewFromFloat(invoices[i].ServiceTotal).Div(total).Mul(amount).Round(2)
			shares[i] = share.InexactFloat64()
			allocated = allocated.Add(share)
		}
	}
	shares[last] = amount.Sub(allocated).InexactFloat64()
	return shares
}
