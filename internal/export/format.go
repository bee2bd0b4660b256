// Package export holds formatting shared by the PDF, CSV and XLSX exporters.
package export

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BRL formata 11136.5 como "R$ 11.136,50".
func BRL(v float64) string {
	return "R$ " + Number(v, 2)
}

// Number formata com separador de milhar "." e decimal ",".
func Number(v float64, places int32) string {
	s := decimal.NewFromFloat(v).StringFixed(places)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

// Date formata no padrão brasileiro.
const DateLayout = "02/01/2006"
