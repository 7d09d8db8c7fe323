package rows

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"fiscal-service/internal/core/money"
	"fiscal-service/internal/core/textnorm"
)

// Record is a row re-keyed onto a schema.
type Record map[Field]string

var (
	competenceRegex = regexp.MustCompile(`^(\d{1,2})[/.-](\d{4})$`)
	isoMonthRegex   = regexp.MustCompile(`^(\d{4})[/.-](\d{1,2})$`)
	monthNameRegex  = regexp.MustCompile(`^([A-Z]{3})[A-Z]*[ /.-]*(\d{4})$`)
	yearRegex       = regexp.MustCompile(`^\d{4}$`)
	dateLayouts     = []string{"02/01/2006", "2/1/2006", "2006-01-02", "02-01-2006", "02.01.2006", "01-02-06"}
	monthAbbrevs    = map[string]int{"JAN": 1, "FEV": 2, "MAR": 3, "ABR": 4, "MAI": 5, "JUN": 6, "JUL": 7, "AGO": 8, "SET": 9, "OUT": 10, "NOV": 11, "DEZ": 12}
	truthyFlags     = map[string]bool{"S": true, "SIM": true, "X": true, "1": true, "TRUE": true, "VERDADEIRO": true, "Y": true, "YES": true}
)

// String returns the trimmed value of f with whitespace collapsed.
func (r Record) String(f Field) string {
	return textnorm.CollapseSpaces(r[f])
}

// Has reports whether f carries a non-blank value.
func (r Record) Has(f Field) bool {
	return strings.TrimSpace(r[f]) != ""
}

// Money parses f with the Brazilian value rules; blanks and garbage are 0.
func (r Record) Money(f Field) float64 {
	return money.ParseValue(r[f])
}

// Int parses f as an integer, accepting spreadsheet floats such as "2024.0".
func (r Record) Int(f Field) (int, bool) {
	s := strings.TrimSuffix(strings.TrimSpace(r[f]), ".0")
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Flag reads yes/no style cells ("S", "Sim", "X", "1").
func (r Record) Flag(f Field) bool {
	return truthyFlags[textnorm.Fold(r[f])]
}

// Date parses f as a day-first date or an Excel serial number.
func (r Record) Date(f Field) (time.Time, bool) {
	return ParseDate(r[f])
}

// Competence parses a payroll reference such as "01/2024", "2024-01" or "JAN/2024".
// A bare year yields month 0.
func (r Record) Competence(f Field) (year, month int, ok bool) {
	return ParseCompetence(r[f])
}

// ParseDate parses day-first dates and Excel serials between 1995 and 2028.
func ParseDate(val string) (time.Time, bool) {
	s := strings.TrimSpace(val)
	if s == "" {
		return time.Time{}, false
	}
	if len(s) > 10 {
		s = strings.TrimSpace(s[:10])
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil && f > 35000 && f < 47000 {
		return excelSerialToDate(f), true
	}
	return time.Time{}, false
}

// ParseCompetence parses month/year references.
func ParseCompetence(val string) (year, month int, ok bool) {
	s := textnorm.Fold(val)
	raw := strings.TrimSpace(val)
	if m := competenceRegex.FindStringSubmatch(raw); m != nil {
		month, _ = strconv.Atoi(m[1])
		year, _ = strconv.Atoi(m[2])
		return year, month, month >= 1 && month <= 12
	}
	if m := isoMonthRegex.FindStringSubmatch(raw); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		return year, month, month >= 1 && month <= 12
	}
	if m := monthNameRegex.FindStringSubmatch(s); m != nil {
		if mm, found := monthAbbrevs[m[1]]; found {
			year, _ = strconv.Atoi(m[2])
			return year, mm, true
		}
	}
	if yearRegex.MatchString(raw) {
		year, _ = strconv.Atoi(raw)
		return year, 0, true
	}
	if t, found := ParseDate(raw); found {
		return t.Year(), int(t.Month()), true
	}
	return 0, 0, false
}

func excelSerialToDate(serial float64) time.Time {
	// base Excel serial -> 1899-12-30
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	days := int(serial)
	return base.AddDate(0, 0, days)
}
