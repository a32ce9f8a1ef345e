package dates

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// monthsByName maps folded full names and common abbreviations to month numbers.
var monthsByName = map[string]int{
	"janeiro": 1, "jan": 1,
	"fevereiro": 2, "fev": 2,
	"marco": 3, "mar": 3,
	"abril": 4, "abr": 4,
	"maio": 5, "mai": 5,
	"junho": 6, "jun": 6,
	"julho": 7, "jul": 7,
	"agosto": 8, "ago": 8,
	"setembro": 9, "set": 9,
	"outubro": 10, "out": 10,
	"novembro": 11, "nov": 11,
	"dezembro": 12, "dez": 12,
}

// MonthLabel renders "Maio de 2024".
func MonthLabel(year, month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1] + " de " + strconv.Itoa(year)
}

// normalize trims, lower-cases, folds accents and collapses inner whitespace,
// so "  Mês   Passado" and "mes passado" compare equal.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}
