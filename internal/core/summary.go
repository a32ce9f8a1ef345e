package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Class  Class
	Amount decimal.Decimal
}

// Totals is the gain/expense/investment breakdown of a set of transactions.
type Totals struct {
	Income      decimal.Decimal
	Expenses    decimal.Decimal
	Investments decimal.Decimal
	Count       int
	ByCategory  []CategoryAmount
}

// Outflow is everything that left the accounts, expenses and investments alike.
func (t Totals) Outflow() decimal.Decimal {
	return t.Expenses.Add(t.Investments)
}

// Balance is income minus every outflow, regardless of category.
func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Outflow())
}

func Summarize(txs []Transaction) Totals {
	totals := Totals{
		Income:      decimal.Zero,
		Expenses:    decimal.Zero,
		Investments: decimal.Zero,
		Count:       len(txs),
	}

	type key struct {
		name  string
		class Class
	}
	sums := map[key]decimal.Decimal{}

	for _, tx := range txs {
		class := tx.Class()
		switch class {
		case ClassGain:
			totals.Income = totals.Income.Add(tx.Amount)
		case ClassInvestment:
			totals.Investments = totals.Investments.Add(tx.Amount)
		default:
			totals.Expenses = totals.Expenses.Add(tx.Amount)
		}
		k := key{name: NormalizeCategory(tx.Category), class: class}
		sums[k] = sums[k].Add(tx.Amount)
	}

	for k, v := range sums {
		totals.ByCategory = append(totals.ByCategory, CategoryAmount{Name: k.name, Class: k.class, Amount: v})
	}
	sort.Slice(totals.ByCategory, func(i, j int) bool {
		a, b := totals.ByCategory[i], totals.ByCategory[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.Name < b.Name
	})

	return totals
}
