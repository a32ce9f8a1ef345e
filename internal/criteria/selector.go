package criteria

import (
	"errors"
	"fmt"
	"strings"

	"financebot/internal/core"
)

// Selector names a class of transactions the user refers to ("meus gastos",
// "os investimentos").
type Selector int

const (
	Any Selector = iota
	Gains
	Expenses
	Investments
	// Outflows is every "saída", investments included.
	Outflows
)

var ErrUnknownSelector = errors.New("unknown transaction selector")

var selectorNames = map[string]Selector{
	"":              Any,
	"qualquer":      Any,
	"tudo":          Any,
	"ganho":         Gains,
	"ganhos":        Gains,
	"entrada":       Gains,
	"entradas":      Gains,
	"receita":       Gains,
	"receitas":      Gains,
	"gasto":         Expenses,
	"gastos":        Expenses,
	"despesa":       Expenses,
	"despesas":      Expenses,
	"investimento":  Investments,
	"investimentos": Investments,
	"saída":         Outflows,
	"saídas":        Outflows,
	"saida":         Outflows,
	"saidas":        Outflows,
}

func ParseSelector(s string) (Selector, error) {
	if sel, ok := selectorNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return sel, nil
	}
	return Any, fmt.Errorf("%w: %q", ErrUnknownSelector, s)
}

func (s Selector) String() string {
	switch s {
	case Gains:
		return "ganhos"
	case Expenses:
		return "gastos"
	case Investments:
		return "investimentos"
	case Outflows:
		return "saídas"
	default:
		return "qualquer"
	}
}

// storeCriteria is what the store can filter on directly. Expenses cannot be
// expressed this way and need Matches as a post-filter.
func (s Selector) storeCriteria() (core.Kind, string) {
	switch s {
	case Gains:
		return core.Income, ""
	case Expenses, Outflows:
		return core.Outflow, ""
	case Investments:
		return core.Outflow, core.InvestmentCategory
	default:
		return "", ""
	}
}

func (s Selector) Matches(tx core.Transaction) bool {
	switch s {
	case Gains:
		return tx.IsGain()
	case Expenses:
		return tx.IsExpense()
	case Investments:
		return tx.IsInvestment()
	case Outflows:
		return tx.Kind == core.Outflow
	default:
		return true
	}
}

// needsPostFilter is true when the store result must be narrowed in memory.
func (s Selector) needsPostFilter() bool {
	return s == Expenses
}
