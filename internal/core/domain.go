package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "entrada"
	Outflow Kind = "saída"
)

// InvestmentCategory is the outflow category that turns an expense into an investment.
const InvestmentCategory = "investimentos"

// ISODate is the storage and wire layout for calendar dates.
const ISODate = "2006-01-02"

type (
	Kind string

	Date struct {
		time.Time
	}

	Transaction struct {
		ID          int64
		Kind        Kind
		Amount      decimal.Decimal
		Category    string // normalized: trimmed, lower-case
		Description string
		Date        Date
	}
)

// Class is the derived three-way split of a transaction. It is never stored.
type Class int

const (
	ClassGain Class = iota
	ClassExpense
	ClassInvestment
)

func (c Class) String() string {
	switch c {
	case ClassGain:
		return "ganho"
	case ClassExpense:
		return "gasto"
	case ClassInvestment:
		return "investimento"
	default:
		return "desconhecido"
	}
}

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidKind   = errors.New("invalid transaction type")
	ErrEmptyCategory = errors.New("empty category")
)

// ParseKind accepts the pt-BR names of the two kinds, with or without the accent.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entrada":
		return Income, nil
	case "saída", "saida":
		return Outflow, nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) Valid() bool {
	return k == Income || k == Outflow
}

// NormalizeCategory is applied on every write path.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Classify is the single place where gain, expense and investment are told apart.
func Classify(kind Kind, category string) Class {
	if kind == Income {
		return ClassGain
	}
	if NormalizeCategory(category) == InvestmentCategory {
		return ClassInvestment
	}
	return ClassExpense
}

func (t Transaction) Class() Class {
	return Classify(t.Kind, t.Category)
}

func (t Transaction) IsInvestment() bool { return t.Class() == ClassInvestment }
func (t Transaction) IsExpense() bool    { return t.Class() == ClassExpense }
func (t Transaction) IsGain() bool       { return t.Class() == ClassGain }

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if NormalizeCategory(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Date.IsEmpty() {
		return ErrInvalidDate
	}
	return nil
}

// Normalized returns a copy ready to be persisted.
func (t Transaction) Normalized() Transaction {
	t.Category = NormalizeCategory(t.Category)
	t.Description = strings.TrimSpace(t.Description)
	t.Date = NewDate(t.Date.Year(), t.Date.Month(), t.Date.Day())
	return t
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the clock part of t, keeping its calendar day in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate accepts only YYYY-MM-DD and rejects impossible days such as 2024-02-31.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(ISODate, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ValidDate reports whether year/month/day name a real calendar day.
func ValidDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	d := NewDate(year, month, day)
	return d.Year() == year && d.Month() == month && d.Day() == day
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(ISODate)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty returns true if the date is zero; ranges use it for an open bound.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

func (d Date) FirstOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// LastOfMonth jumps from day 28 past the month boundary and walks back, which works for
// every month length including February in leap years.
func (d Date) LastOfMonth() Date {
	next := NewDate(d.Year(), d.Month(), 28).AddDays(4)
	return next.AddDays(-next.Day())
}
