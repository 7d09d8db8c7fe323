package extraction

import (
	"regexp"
	"strings"

	"fiscal-service/internal/core/money"
	"fiscal-service/internal/core/textnorm"
	"fiscal-service/internal/domain"
)

const upperName = `[A-ZÀ-Ý][A-ZÀ-Ý.' ]*[A-ZÀ-Ý.]`

// StatementSegmentRule splits an informe PDF into worker blocks.
var StatementSegmentRule = SegmentRule{
	Anchor:          regexp.MustCompile(`(?:Nome\s+Completo|NOME\s+COMPLETO)\s*:?\s*(?P<name>` + upperName + `)?\s*[-–—]\s*(?P<id>\d+)`),
	Disqualifier:    regexp.MustCompile(`(?i)fonte\s+pagadora`),
	Context:         50,
	LookAhead:       regexp.MustCompile(`^\s*(` + upperName + `)`),
	LookAheadWindow: 80,
	Evidence:        statementEvidence,
}

var (
	stmtTaxableIncome = moneyField("rendimentos_tributaveis", `(?i)Total\s+dos\s+rendimentos(?:\s*\(inclusive\s+f[eé]rias\))?`)
	stmtSocialSec     = moneyField("previdencia_oficial", `(?i)Contribui[cç][aã]o\s+previdenci[aá]ria\s+oficial`)
	stmtIncomeTax     = withExclude(
		moneyField("irrf", `(?i)Imposto\s+sobre\s+a\s+renda\s+retido\s+na\s+fonte`),
		`(?i)^\s*(?:sobre|s/)\s*(?:o\s+|a\s+)?(?:13|d[eé]cimo|PLR|participa)`,
	)
	stmtThirteenth   = moneyField("decimo_terceiro", `(?im)^\s*(?:\d+\.\s*)?(?:D[eé]cimo\s+terceiro|13[ºo°]?)\s+sal[aá]rio`)
	stmtThirteenthIR = moneyField("irrf_decimo_terceiro", `(?i)retido\s+na\s+fonte\s+sobre\s+(?:o\s+)?(?:d[eé]cimo\s+terceiro|13[ºo°]?)\s+sal[aá]rio`)
	stmtProfitShare  = withExclude(
		moneyField("plr", `(?i)Participa[cç][aã]o\s+nos\s+lucros(?:\s+ou\s+resultados)?(?:\s*\(PLR\))?`),
		`(?i)^\s*(?:\(PLR\)\s*)?[-–]?\s*(?:IR|imposto)`,
	)
	stmtProfitShareIR = moneyField("irrf_plr", `(?i)retido\s+na\s+fonte\s+sobre\s+(?:a\s+)?(?:PLR|participa[cç][aã]o\s+nos\s+lucros(?:\s+ou\s+resultados)?)`)
	stmtTaxID         = Pattern{
		Name:       "cpf",
		Label:      regexp.MustCompile(`\bCPF\b`),
		Value:      documentVal,
		Relaxed:    documentAny,
		Kind:       KindDigits,
		Strategies: []Strategy{LineAfter{}, WindowAfter{}},
		Window:     40,
	}

	statementMoney = []Pattern{stmtTaxableIncome, stmtSocialSec, stmtIncomeTax, stmtThirteenth, stmtThirteenthIR, stmtProfitShare, stmtProfitShareIR}

	healthPlanLine = regexp.MustCompile(`(?im)^[ \t]*(?:Benefici[aá]rio|Titular|Dependente)[ \t]*:?[ \t]*(?:[-–][ \t]*)?([^\n]*?)[ \t]+(?:R\$[ \t]*)?(\d{1,3}(?:\.\d{3})+,\d{2}|\d+,\d{2})[ \t]*$`)
)

func withExclude(p Pattern, exclude string) Pattern {
	p.Exclude = regexp.MustCompile(exclude)
	return p
}

// ExtractStatement reads one worker block. Worker id and name come from the span's anchor.
func ExtractStatement(fx FieldExtractor, span TextSpan) domain.IncomeStatement {
	text := span.Text
	st := domain.IncomeStatement{
		WorkerID:             span.EntityID,
		Name:                 textnorm.CollapseSpaces(span.Name),
		TaxID:                fx.Text(text, stmtTaxID),
		TaxableIncome:        fx.Money(text, stmtTaxableIncome),
		SocialSecurity:       fx.Money(text, stmtSocialSec),
		IncomeTax:            fx.Money(text, stmtIncomeTax),
		ThirteenthGross:      fx.Money(text, stmtThirteenth),
		ThirteenthIncomeTax:  fx.Money(text, stmtThirteenthIR),
		ProfitShare:          fx.Money(text, stmtProfitShare),
		ProfitShareIncomeTax: fx.Money(text, stmtProfitShareIR),
		HealthPlan:           HealthPlanEntries(text),
		Errors:               []string{},
	}
	if st.Name == "" {
		st.Errors = append(st.Errors, "nome do trabalhador não encontrado")
	}
	return st
}

// HealthPlanEntries lists the "Beneficiário/Titular/Dependente NOME valor" lines of a block.
func HealthPlanEntries(text string) []domain.HealthPlanEntry {
	entries := []domain.HealthPlanEntry{}
	for _, m := range healthPlanLine.FindAllStringSubmatch(text, -1) {
		amount := money.ParseValue(m[2])
		if amount == 0 {
			continue
		}
		entries = append(entries, domain.HealthPlanEntry{
			Beneficiary: strings.Trim(textnorm.CollapseSpaces(m[1]), " -:"),
			Amount:      amount,
		})
	}
	return entries
}

// statementEvidence keeps a worker block only if it carries a non-zero amount or a
// health-plan line; header templates carry neither.
func statementEvidence(span string) bool {
	var fx FieldExtractor
	for _, p := range statementMoney {
		if fx.Money(span, p) != 0 {
			return true
		}
	}
	return len(HealthPlanEntries(span)) > 0
}
