// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings and
// formatting them for display in reais.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, an optional
// "R$" prefix, and rounds half-up to two decimal places. When a decimal comma is
// present, dots are thousands separators and must group digits by three. A lone
// dot without a comma stays a decimal point. Returns ErrInvalidAmount for invalid
// formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseAmount("12.34")      -> 12.34, nil
//	ParseAmount("R$ 12,34")   -> 12.34, nil
//	ParseAmount("1.234,56")   -> 1234.56, nil
//	ParseAmount("1.234.567")  -> 1234567, nil
//	ParseAmount("12.345")     -> 12.35, nil (rounds up)
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	switch {
	case strings.Contains(s, ","):
		whole, frac, _ := strings.Cut(s, ",")
		if strings.ContainsAny(frac, ".,") {
			return decimal.Zero, ErrInvalidAmount
		}
		if strings.Contains(whole, ".") {
			if !groupedByThousands(whole) {
				return decimal.Zero, ErrInvalidAmount
			}
			whole = strings.ReplaceAll(whole, ".", "")
		}
		s = whole + "." + frac
	case strings.Count(s, ".") > 1:
		if !groupedByThousands(s) {
			return decimal.Zero, ErrInvalidAmount
		}
		s = strings.ReplaceAll(s, ".", "")
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			// Signs are rejected here too: only positive values allowed
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// groupedByThousands reports whether s reads like "1.234.567".
func groupedByThousands(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

// FormatBRL formats an amount as "R$1234,56" (negative values keep a leading minus).
func FormatBRL(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	s = strings.Replace(s, ".", ",", 1)
	if d.IsNegative() {
		return "-R$" + s
	}
	return "R$" + s
}
