// Package intent holds the typed requests the conversational layer sends in and
// the executor that carries them out against the ledger.
package intent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"financebot/internal/core"
)

type Action string

const (
	ActionAdd     Action = "add_transaction"
	ActionList    Action = "list_transactions"
	ActionDelete  Action = "delete_transactions"
	ActionEdit    Action = "edit_transaction"
	ActionReport  Action = "generate_report"
	ActionQuery   Action = "query_transactions"
	ActionBalance Action = "get_balance"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidParams = errors.New("invalid params")
)

// Intent is implemented by exactly the request types below.
type Intent interface {
	Action() Action
}

type (
	AddTransaction struct {
		Type        string `json:"type"`
		Amount      Amount `json:"amount"`
		Category    string `json:"category"`
		Description string `json:"description"`
		// Date is free text ("ontem", "15/05"); empty means today.
		Date string `json:"date"`
	}

	ListTransactions struct {
		Period   string `json:"period"`
		Type     string `json:"type"`
		Category string `json:"category"`
		Limit    int    `json:"limit"`
	}

	// DeleteTransactions selects its target by the first non-empty field in
	// declaration order.
	DeleteTransactions struct {
		Confirmed       bool   `json:"confirmation_received"`
		TransactionID   int64  `json:"transaction_id"`
		DisplayIndex    int    `json:"display_index"`
		DeleteLast      string `json:"delete_last"`
		DeleteAllOfType string `json:"delete_all_of_type"`
		Category        string `json:"category"`
		Date            string `json:"date"`
		Period          string `json:"period"`
		DeleteAll       bool   `json:"delete_all"`
		// Type narrows Category, Date and Period targets.
		Type string `json:"type"`
	}

	EditTransaction struct {
		Confirmed      bool    `json:"confirmation_received"`
		TransactionID  int64   `json:"transaction_id"`
		DisplayIndex   int     `json:"display_index"`
		EditLast       string  `json:"edit_last"`
		NewAmount      *Amount `json:"new_amount"`
		NewCategory    *string `json:"new_category"`
		NewDescription *string `json:"new_description"`
		NewDate        *string `json:"new_date"`
		NewType        *string `json:"new_type"`
	}

	GenerateReport struct {
		Period string `json:"period"`
	}

	QueryTransactions struct {
		Period   string `json:"period"`
		Type     string `json:"type"`
		Category string `json:"category"`
	}

	GetBalance struct {
		Period string `json:"period"`
	}
)

func (AddTransaction) Action() Action     { return ActionAdd }
func (ListTransactions) Action() Action   { return ActionList }
func (DeleteTransactions) Action() Action { return ActionDelete }
func (EditTransaction) Action() Action    { return ActionEdit }
func (GenerateReport) Action() Action     { return ActionReport }
func (QueryTransactions) Action() Action  { return ActionQuery }
func (GetBalance) Action() Action         { return ActionBalance }

// Amount keeps the amount as sent, number or string ("50,90"), and is parsed
// only when used so that an edit can skip a bad value instead of failing.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a number or a string")
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) Decimal() (decimal.Decimal, error) {
	return core.ParseAmount(string(a))
}

type envelope struct {
	Action Action          `json:"action"`
	Params json.RawMessage `json:"params"`
}

// Decode parses {"action": ..., "params": {...}}. Unknown actions and unknown
// parameter names are both rejected.
func Decode(data []byte) (Intent, error) {
	var env envelope
	if err := strictUnmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	var in Intent
	switch Action(strings.TrimSpace(string(env.Action))) {
	case ActionAdd:
		in = &AddTransaction{}
	case ActionList:
		in = &ListTransactions{}
	case ActionDelete:
		in = &DeleteTransactions{}
	case ActionEdit:
		in = &EditTransaction{}
	case ActionReport:
		in = &GenerateReport{}
	case ActionQuery:
		in = &QueryTransactions{}
	case ActionBalance:
		in = &GetBalance{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Action)
	}

	params := env.Params
	if len(bytes.TrimSpace(params)) == 0 || bytes.Equal(bytes.TrimSpace(params), []byte("null")) {
		params = []byte("{}")
	}
	if err := strictUnmarshal(params, in); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParams, env.Action, err)
	}
	return deref(in), nil
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON value")
	}
	return nil
}

// deref returns the value form so callers can type-switch on plain structs.
func deref(in Intent) Intent {
	switch v := in.(type) {
	case *AddTransaction:
		return *v
	case *ListTransactions:
		return *v
	case *DeleteTransactions:
		return *v
	case *EditTransaction:
		return *v
	case *GenerateReport:
		return *v
	case *QueryTransactions:
		return *v
	case *GetBalance:
		return *v
	}
	return in
}
