// Package money converts Brazilian-formatted amounts and applies the rounding policy
// shared by the extraction, aggregation and tax engines.
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance used when comparing two monetary amounts.
const Epsilon = 0.01

// zeroSnap is the magnitude under which a rounded value is treated as exactly zero.
const zeroSnap = 1e-10

var currencyPrefixes = []string{"R$", "US$", "$"}

// ParseValue converts a locale-formatted monetary or percentage string into a number.
// It never fails: "-", blank and unparseable inputs all yield 0.
//
// "." is read as a thousands separator only when a "," appears after it; a lone ","
// is always the decimal marker.
func ParseValue(val string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(val, "\u00a0", " "))
	if s == "" || s == "-" {
		return 0
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		s = strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	for _, p := range currencyPrefixes {
		if strings.HasPrefix(strings.ToUpper(s), p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	// sinal depois do símbolo: "R$ -10,00"
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0
	}

	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastComma >= 0:
		intPart := strings.ReplaceAll(s[:lastComma], ".", "")
		intPart = strings.ReplaceAll(intPart, ",", "")
		s = intPart + "." + s[lastComma+1:]
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return 0
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if neg {
		f = -f
	}
	return f
}

// Round2 rounds to two decimals, half away from zero, on the absolute value.
// Magnitudes below 1e-10 come back as exactly 0.
func Round2(val float64) float64 {
	if math.Abs(val) < zeroSnap || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	abs := decimal.NewFromFloat(math.Abs(val)).Round(2).InexactFloat64()
	if abs == 0 {
		return 0
	}
	if val < 0 {
		return -abs
	}
	return abs
}

// Round2Decimal is Round2 kept in decimal form, for callers that must sum exactly.
func Round2Decimal(val float64) decimal.Decimal {
	return decimal.NewFromFloat(Round2(val))
}

// Equal reports whether two amounts differ by no more than Epsilon.
func Equal(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}
