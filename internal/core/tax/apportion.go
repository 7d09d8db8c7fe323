package tax

import (
	"regexp"
	"strings"

	"fiscal-service/internal/core/money"
	"fiscal-service/internal/domain"
)

var (
	digitRun = regexp.MustCompile(`\d+`)

	// "03/2025" and "10/03/2025" are competences and dates, never invoice numbers.
	dateToken = regexp.MustCompile(`\b(?:\d{1,2}/)?\d{1,2}/\d{4}\b`)
)

// ApportionCharges returns, per invoice index, the anticipated amount attributed to it.
//
// A charge names invoices by embedding their numbers in its identifier. One referenced
// invoice takes the whole amount; several split it in proportion to their totals. A charge
// that references nothing, or only zero-total invoices, is not attributed.
func ApportionCharges(charges []domain.AnticipatedCharge, invoices []domain.TaxInvoice) []float64 {
	out := make([]float64, len(invoices))

	byNumber := map[string][]int{}
	for i, inv := range invoices {
		if key := numberKey(inv.Number); key != "" {
			byNumber[key] = append(byNumber[key], i)
		}
	}

	for _, ch := range charges {
		refs := referencedInvoices(ch.Identifier, byNumber)
		switch len(refs) {
		case 0:
			continue
		case 1:
			out[refs[0]] = money.Round2(out[refs[0]] + ch.Amount)
			continue
		}

		var sum float64
		for _, i := range refs {
			sum += invoices[i].ServiceTotal
		}
		if sum == 0 {
			continue
		}
		for _, i := range refs {
			out[i] = money.Round2(out[i] + money.Round2(invoices[i].ServiceTotal/sum*ch.Amount))
		}
	}
	return out
}

// referencedInvoices lists, in identifier order and without repeats, the invoices whose
// numbers appear in identifier. Date and competence tokens are ignored.
func referencedInvoices(identifier string, byNumber map[string][]int) []int {
	var refs []int
	seen := map[int]bool{}
	for _, tok := range digitRun.FindAllString(dateToken.ReplaceAllString(identifier, " "), -1) {
		for _, i := range byNumber[strings.TrimLeft(tok, "0")] {
			if !seen[i] {
				seen[i] = true
				refs = append(refs, i)
			}
		}
	}
	return refs
}

func numberKey(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "0")
}
