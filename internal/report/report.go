// Package report turns a resolved transaction list into readable text.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"financebot/internal/core"
)

// ErrNoTransactions is returned when there is nothing to report on.
var ErrNoTransactions = errors.New("no transactions to report")

// Generator renders a report for txs, which are already filtered to the period
// described by label.
type Generator interface {
	Generate(ctx context.Context, txs []core.Transaction, label string) (string, error)
}

// FormatLines renders one line per transaction:
//
//	- 2024-05-18: saída de R$50,00 (mercado) - feira
func FormatLines(txs []core.Transaction) string {
	if len(txs) == 0 {
		return "Nenhuma transação encontrada para este período."
	}
	var b strings.Builder
	for i, tx := range txs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: %s de %s (%s)", tx.Date.String(), tx.Kind, core.FormatBRL(tx.Amount), tx.Category)
		if tx.Description != "" {
			b.WriteString(" - " + tx.Description)
		}
	}
	return b.String()
}

// Plain is a deterministic summary that needs no external service.
type Plain struct{}

func (Plain) Generate(_ context.Context, txs []core.Transaction, label string) (string, error) {
	if len(txs) == 0 {
		return "", ErrNoTransactions
	}
	t := core.Summarize(txs)

	var b strings.Builder
	fmt.Fprintf(&b, "Relatório financeiro: %s\n\n", label)
	fmt.Fprintf(&b, "Entradas: %s\n", core.FormatBRL(t.Income))
	fmt.Fprintf(&b, "Gastos: %s\n", core.FormatBRL(t.Expenses))
	fmt.Fprintf(&b, "Investimentos: %s\n", core.FormatBRL(t.Investments))
	fmt.Fprintf(&b, "Saldo: %s\n", core.FormatBRL(t.Balance()))
	fmt.Fprintf(&b, "Transações: %d\n", t.Count)

	wrote := false
	for _, c := range t.ByCategory {
		if c.Class != core.ClassExpense {
			continue
		}
		if !wrote {
			b.WriteString("\nMaiores gastos por categoria:\n")
			wrote = true
		}
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, core.FormatBRL(c.Amount))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
