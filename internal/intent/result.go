package intent

import (
	"fmt"

	"github.com/shopspring/decimal"

	"financebot/internal/core"
	"financebot/internal/criteria"
)

type Status string

const (
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
	StatusNotFound  Status = "not_found"
	StatusAmbiguous Status = "ambiguous"
)

// Result is what the conversational layer gets back for every intent.
type Result struct {
	Action      Action            `json:"action"`
	Status      Status            `json:"status"`
	Message     string            `json:"message,omitempty"`
	Period      string            `json:"period,omitempty"`
	Transaction *TransactionView  `json:"transaction,omitempty"`
	Items       []ListItem        `json:"items,omitempty"`
	Query       *QueryView        `json:"query,omitempty"`
	Balance     *BalanceView      `json:"balance,omitempty"`
	Report      string            `json:"report,omitempty"`
	Outcome     *criteria.Outcome `json:"outcome,omitempty"`
}

type TransactionView struct {
	ID          int64           `json:"id"`
	Type        core.Kind       `json:"type"`
	Class       string          `json:"class"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

type ListItem struct {
	DisplayIndex  int             `json:"display_index"`
	TransactionID int64           `json:"transaction_id"`
	Summary       string          `json:"summary"`
	Transaction   TransactionView `json:"transaction"`
}

type QueryView struct {
	Total    decimal.Decimal `json:"total_amount"`
	Count    int             `json:"count"`
	Type     string          `json:"type_filter,omitempty"`
	Category string          `json:"category_filter,omitempty"`
}

type BalanceView struct {
	Income      decimal.Decimal `json:"total_income"`
	Outflow     decimal.Decimal `json:"total_outflow"`
	Expenses    decimal.Decimal `json:"total_expenses"`
	Investments decimal.Decimal `json:"total_investments"`
	Balance     decimal.Decimal `json:"balance"`
}

func viewOf(tx core.Transaction) TransactionView {
	return TransactionView{
		ID:          tx.ID,
		Type:        tx.Kind,
		Class:       tx.Class().String(),
		Amount:      tx.Amount,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.String(),
	}
}

// Summary reads "Saída de R$50,00 em 'mercado' (2024-05-18) - feira".
func Summary(tx core.Transaction) string {
	kind := "Entrada"
	if tx.Kind == core.Outflow {
		kind = "Saída"
	}
	s := fmt.Sprintf("%s de %s em '%s' (%s)", kind, core.FormatBRL(tx.Amount), tx.Category, tx.Date.String())
	if tx.Description != "" {
		s += " - " + tx.Description
	}
	return s
}

func errorResult(a Action, msg string) Result {
	return Result{Action: a, Status: StatusError, Message: msg}
}

func outcomeResult(a Action, o criteria.Outcome) Result {
	r := Result{Action: a, Message: o.Message, Outcome: &o}
	switch o.Status {
	case criteria.StatusDone:
		r.Status = StatusSuccess
	case criteria.StatusCancelled:
		r.Status = StatusCancelled
	case criteria.StatusNotFound:
		r.Status = StatusNotFound
	case criteria.StatusAmbiguous:
		r.Status = StatusAmbiguous
	default:
		r.Status = StatusError
	}
	return r
}
