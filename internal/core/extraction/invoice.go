package extraction

import (
	"fmt"
	"regexp"
	"strings"

	"fiscal-service/internal/core/textnorm"
	"fiscal-service/internal/domain"
)

// InvoiceSegmentRule splits a consolidated PDF holding several NFS-e. Its anchors carry no id.
var InvoiceSegmentRule = SegmentRule{
	Anchor:       regexp.MustCompile(`(?i)NOTA\s+FISCAL\s+(?:DE\s+)?SERVI[CÇ]OS?\s+ELETR[OÔ]NICA|\bDANFS-?e\b`),
	Disqualifier: regexp.MustCompile(`(?i)substitu`),
	Context:      50,
	Evidence:     invoiceEvidence,
}

var (
	invNumber = Pattern{
		Name:       "numero",
		Label:      regexp.MustCompile(`(?i)N[uú]mero\s+da\s+(?:NFS-?e|Nota(?:\s+Fiscal)?)|N[ºo°]\s+da\s+(?:NFS-?e|Nota)`),
		Value:      digitsValue,
		Kind:       KindDigits,
		Strategies: []Strategy{LineAfter{}, NextLine{}, LineBefore{}},
	}
	invSeries = Pattern{
		Name:       "serie",
		Label:      regexp.MustCompile(`(?i)\bS[ée]rie\b`),
		Value:      regexp.MustCompile(`^([A-Z0-9]{1,5})\b`),
		Kind:       KindText,
		Strategies: []Strategy{LineAfter{}},
	}
	invAccessKey = Pattern{
		Name:       "chave_acesso",
		Label:      regexp.MustCompile(`(?i)Chave\s+de\s+Acesso(?:\s+da\s+NFS-?e)?`),
		Value:      regexp.MustCompile(`^(\d[\d ]{42,}\d)`),
		Kind:       KindDigits,
		Strategies: []Strategy{LineAfter{}, NextLine{}},
	}
	invVerification = Pattern{
		Name:       "codigo_verificacao",
		Label:      regexp.MustCompile(`(?i)C[óo]digo\s+de\s+Verifica[cç][aã]o`),
		Value:      regexp.MustCompile(`^([A-Za-z0-9-]{4,})`),
		Kind:       KindText,
		Strategies: []Strategy{LineAfter{}, NextLine{}},
	}
	invIssueDate = Pattern{
		Name:       "data_emissao",
		Label:      regexp.MustCompile(`(?i)Data\s+(?:e\s+Hora\s+)?(?:de\s+|da\s+)?Emiss[aã]o(?:\s+da\s+NFS-?e)?`),
		Value:      dateValue,
		Relaxed:    regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
		Kind:       KindText,
		Strategies: []Strategy{LineAfter{}, NextLine{}, WindowAfter{}},
		Window:     40,
	}
	invCompetence = Pattern{
		Name:       "competencia",
		Label:      regexp.MustCompile(`(?i)Compet[eê]ncia(?:\s+da\s+NFS-?e)?`),
		Value:      regexp.MustCompile(`^(\d{2}/\d{2}/\d{4}|\d{2}/\d{4})`),
		Kind:       KindText,
		Strategies: []Strategy{LineAfter{}, NextLine{}},
	}
	invServiceCode = Pattern{
		Name:       "codigo_servico",
		Label:      regexp.MustCompile(`(?i)C[óo]digo\s+(?:d[oe]\s+)?(?:Tributa[cç][aã]o\s+Nacional|Servi[cç]o)|Item\s+da\s+Lista(?:\s+de\s+Servi[cç]os)?`),
		Value:      regexp.MustCompile(`^(\d{1,2}(?:\.\d{2}){1,3}|\d{4,6})`),
		Kind:       KindText,
		Strategies: []Strategy{LineAfter{}, NextLine{}},
	}
	invDescription = textField("descricao_servico", `(?i)Discrimina[cç][aã]o\s+dos\s+Servi[cç]os|Descri[cç][aã]o\s+do\s+Servi[cç]o`)
	invISSRate     = Pattern{
		Name:       "aliquota_iss",
		Label:      regexp.MustCompile(`(?i)Al[ií]quota(?:\s+(?:do\s+)?ISS(?:QN)?)?`),
		Value:      percentValue,
		Kind:       KindMoney,
		Strategies: []Strategy{LineAfter{}, NextLine{}},
	}

	invServiceValue = moneyField("valor_servico", `(?i)Valor\s+(?:Total\s+)?(?:d[oa]s?\s+)?Servi[cç]os?`)
	invDeductions   = moneyField("deducoes", `(?i)(?:Valor\s+(?:das\s+)?)?Dedu[cç][oõ]es(?:\s*/\s*Redu[cç][oõ]es)?`)
	invDiscount     = moneyField("desconto", `(?i)Desconto\s+Incondicionado`)
	invIR           = moneyField("ir", `(?i)\bIRRF\b|\bIR\b`)
	invINSS         = moneyField("inss", `(?i)\bINSS\b`)
	invCSLL         = moneyField("csll", `(?i)\bCSLL\b`)
	invPIS          = moneyField("pis", `(?i)\bPIS\b(?:\s*/\s*PASEP)?`)
	invCOFINS       = moneyField("cofins", `(?i)\bCOFINS\b`)
	invISS          = withExclude(
		moneyField("iss", `(?i)Valor\s+(?:d[oe]\s+)?ISS(?:QN)?(?:\s+Retido)?|\bISS(?:QN)?\s+Retido`),
		`(?i)^\s*:?\s*(?:Sim|N[aã]o)\b`,
	)
	invNetValue = moneyField("valor_liquido", `(?i)Valor\s+L[ií]quido(?:\s+da\s+(?:NFS-?e|Nota))?`)

	invoiceMoney = []Pattern{invServiceValue, invDeductions, invDiscount, invIR, invINSS, invCSLL, invPIS, invCOFINS, invISS, invNetValue}

	partyDocument = Pattern{
		Name:       "documento",
		Label:      regexp.MustCompile(`(?i)\bCNPJ(?:\s*/\s*CPF)?|\bCPF(?:\s*/\s*CNPJ)?`),
		Value:      documentVal,
		Relaxed:    documentAny,
		Kind:       KindDigits,
		Strategies: []Strategy{LineAfter{}, NextLine{}, WindowAfter{}},
		Window:     60,
	}
	partyName      = textField("nome", `(?i)(?:Nome\s*/\s*)?Raz[aã]o\s+Social|Nome\s+Empresarial`)
	partyMunicipal = Pattern{
		Name:       "inscricao_municipal",
		Label:      regexp.MustCompile(`(?i)Inscri[cç][aã]o\s+Municipal`),
		Value:      regexp.MustCompile(`^([\d./-]{3,})`),
		Kind:       KindText,
		Strategies: []Strategy{LineAfter{}, NextLine{}},
	}
	partyAddress = textField("endereco", `(?i)Endere[cç]o`)
	partyCity    = textField("municipio", `(?i)Munic[ií]pio`)
	partyState   = Pattern{
		Name:       "uf",
		Label:      regexp.MustCompile(`\bUF\b`),
		Value:      regexp.MustCompile(`^([A-Z]{2})\b`),
		Kind:       KindText,
		Strategies: []Strategy{LineAfter{}},
	}
	partyEmail = Pattern{
		Name:       "email",
		Label:      regexp.MustCompile(`(?i)\bE-?mail\b`),
		Value:      regexp.MustCompile(`^([\w.+-]+@[\w-]+(?:\.[\w-]+)+)`),
		Relaxed:    regexp.MustCompile(`([\w.+-]+@[\w-]+(?:\.[\w-]+)+)`),
		Kind:       KindText,
		Strategies: []Strategy{LineAfter{}, WindowAfter{}},
		Window:     60,
	}

	issuerHeading   = regexp.MustCompile(`(?i)PRESTADOR(?:\s+D[OE]S?\s+SERVI[CÇ]OS?)?|\bEMITENTE\b`)
	takerHeading    = regexp.MustCompile(`(?i)TOMADOR(?:\s+D[OE]S?\s+SERVI[CÇ]OS?)?`)
	takerEndHeading = regexp.MustCompile(`(?i)INTERMEDI[AÁ]RIO|DISCRIMINA[CÇ][AÃ]O|SERVI[CÇ]O\s+PRESTADO|DESCRI[CÇ][AÃ]O\s+DO\s+SERVI[CÇ]O|VALOR\s+(?:TOTAL\s+)?(?:D[OA]S?\s+)?SERVI[CÇ]O`)
	cityWithState   = regexp.MustCompile(`^(.+?)\s*[-/]\s*([A-Z]{2})$`)
)

// essentialInvoiceFields are the fields counted by the confidence score.
var essentialInvoiceFields = []struct {
	label  string
	filled func(domain.InvoiceRecord) bool
}{
	{"número", func(r domain.InvoiceRecord) bool { return r.Number != "" }},
	{"documento do prestador", func(r domain.InvoiceRecord) bool { return r.Issuer.Document != "" }},
	{"documento do tomador", func(r domain.InvoiceRecord) bool { return r.Taker.Document != "" }},
	{"valor líquido", func(r domain.InvoiceRecord) bool { return r.NetValue != 0 }},
}

// ExtractInvoice reads one NFS-e from already normalized text.
func ExtractInvoice(fx FieldExtractor, text string) domain.InvoiceRecord {
	issuerText, takerText := partySections(text)

	rec := domain.InvoiceRecord{
		Number:             fx.Text(text, invNumber),
		Series:             fx.Text(text, invSeries),
		AccessKey:          fx.Text(text, invAccessKey),
		VerificationCode:   fx.Text(text, invVerification),
		IssueDate:          fx.Text(text, invIssueDate),
		Competence:         fx.Text(text, invCompetence),
		Issuer:             extractParty(fx, issuerText),
		Taker:              extractParty(fx, takerText),
		ServiceCode:        fx.Text(text, invServiceCode),
		ServiceDescription: fx.Text(text, invDescription),
		ServiceValue:       fx.Money(text, invServiceValue),
		Deductions:         fx.Money(text, invDeductions),
		Discount:           fx.Money(text, invDiscount),
		IR:                 fx.Money(text, invIR),
		INSS:               fx.Money(text, invINSS),
		CSLL:               fx.Money(text, invCSLL),
		PIS:                fx.Money(text, invPIS),
		COFINS:             fx.Money(text, invCOFINS),
		ISS:                fx.Money(text, invISS),
		ISSRate:            fx.Money(text, invISSRate),
		NetValue:           fx.Money(text, invNetValue),
		Errors:             []string{},
		SourceText:         text,
	}
	scoreInvoice(&rec)
	return rec
}

// FailedInvoice is the record returned when a document cannot be read at all.
func FailedInvoice(doc domain.Document, reason string) domain.InvoiceRecord {
	return domain.InvoiceRecord{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		Confidence: 0,
		Errors:     []string{reason},
	}
}

func scoreInvoice(rec *domain.InvoiceRecord) {
	var missing []string
	for _, f := range essentialInvoiceFields {
		if !f.filled(*rec) {
			missing = append(missing, f.label)
		}
	}
	total := len(essentialInvoiceFields)
	rec.Confidence = float64(total-len(missing)) / float64(total)
	if len(missing) > 0 {
		rec.Errors = append(rec.Errors, fmt.Sprintf("campos essenciais ausentes: %s", strings.Join(missing, ", ")))
	}
}

// partySections cuts the issuer block (PRESTADOR up to TOMADOR) and the taker block
// (TOMADOR up to the service section). A missing heading yields "".
func partySections(text string) (issuer, taker string) {
	takerLoc := takerHeading.FindStringIndex(text)
	if issuerLoc := issuerHeading.FindStringIndex(text); issuerLoc != nil {
		end := len(text)
		if takerLoc != nil && takerLoc[0] > issuerLoc[1] {
			end = takerLoc[0]
		}
		issuer = text[issuerLoc[1]:end]
	}
	if takerLoc != nil {
		rest := text[takerLoc[1]:]
		if endLoc := takerEndHeading.FindStringIndex(rest); endLoc != nil {
			rest = rest[:endLoc[0]]
		}
		taker = rest
	}
	return issuer, taker
}

func extractParty(fx FieldExtractor, section string) domain.Party {
	if strings.TrimSpace(section) == "" {
		return domain.Party{}
	}
	p := domain.Party{
		Document:              fx.Text(section, partyDocument),
		Name:                  fx.Text(section, partyName),
		MunicipalRegistration: fx.Text(section, partyMunicipal),
		Address:               fx.Text(section, partyAddress),
		City:                  fx.Text(section, partyCity),
		State:                 fx.Text(section, partyState),
		Email:                 strings.ToLower(fx.Text(section, partyEmail)),
	}
	if m := cityWithState.FindStringSubmatch(p.City); m != nil {
		p.City = m[1]
		if p.State == "" {
			p.State = m[2]
		}
	}
	return p
}

// invoiceEvidence keeps an invoice span only if some monetary field is non-zero.
func invoiceEvidence(span string) bool {
	var fx FieldExtractor
	for _, p := range invoiceMoney {
		if fx.Money(span, p) != 0 {
			return true
		}
	}
	return false
}

// normalizeInvoice is the TextNormalizer preset for NFS-e text.
func normalizeInvoice(raw string) string {
	return textnorm.Normalize(raw, textnorm.InvoiceOptions)
}
