package aggregation

import (
	"strings"

	"fiscal-service/internal/domain"
)

// DependentDeduction is the per-dependent amount taken from the 13th-salary base.
const DependentDeduction = 189.59

// codeRule tells where a payroll event code lands. Reversing rules subtract their amount;
// Offset, when set, receives the opposite of what Category receives.
type codeRule struct {
	Category    domain.Category
	Reversing   bool
	Offset      domain.Category
	Description string
}

// codeTable is the canonical event table. Earlier payroll layouts used subsets of it.
var codeTable = map[string]codeRule{
	"8781": {Category: domain.CategoryTaxableIncome, Description: "salário"},
	"8783": {Category: domain.CategoryTaxableIncome, Description: "horas extras"},
	"8786": {Category: domain.CategoryTaxableIncome, Description: "adicionais"},

	"8111": {Category: domain.CategorySocialSecurity, Description: "INSS"},
	"8112": {Category: domain.CategorySocialSecurity, Reversing: true, Description: "devolução de INSS"},

	"8121": {Category: domain.CategoryIncomeTax, Description: "IRRF"},

	"8131": {Category: domain.CategoryThirteenthNet, Description: "13º salário"},
	"8132": {Category: domain.CategoryThirteenthIncomeTax, Offset: domain.CategoryThirteenthNet, Description: "IRRF sobre 13º salário"},
	"8133": {Category: domain.CategoryThirteenthIncomeTax, Offset: domain.CategoryThirteenthNet, Description: "IRRF complementar sobre 13º salário"},
	"8134": {Category: domain.CategoryThirteenthSocialSecurity, Description: "INSS sobre 13º salário"},

	"8141": {Category: domain.CategoryProfitShare, Description: "PLR"},
	"8142": {Category: domain.CategoryProfitShareIncomeTax, Description: "IRRF sobre PLR"},

	"8151": {Category: domain.CategoryHealthPlan, Description: "plano de saúde titular"},
	"8152": {Category: domain.CategoryHealthPlan, Description: "plano de saúde dependentes"},
	"8153": {Category: domain.CategoryHealthPlan, Reversing: true, Description: "reembolso de plano de saúde"},

	"8161": {Category: domain.CategoryExemptIncome, Description: "rendimentos isentos"},
	"8162": {Category: domain.CategoryExemptIncome, Description: "indenizações"},
}

// normalizeCode strips spreadsheet artifacts such as "8781.0" or " 08781 ".
func normalizeCode(code string) string {
	c := strings.TrimSpace(code)
	c = strings.TrimSuffix(c, ".0")
	c = strings.TrimLeft(c, "0")
	return c
}

// lookupCode returns the rule for a payroll code.
func lookupCode(code string) (codeRule, bool) {
	r, ok := codeTable[normalizeCode(code)]
	return r, ok
}
