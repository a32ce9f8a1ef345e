package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"financebot/internal/core"
	"financebot/internal/criteria"
	"financebot/internal/dates"
	"financebot/internal/ledger"
	"financebot/internal/report"
)

// DefaultExpenseCategory is used for outflows registered without a category.
const DefaultExpenseCategory = "diversos"

const defaultListLimit = 50

type Executor struct {
	dates    *dates.Resolver
	criteria *criteria.Resolver
	store    ledger.Store
	reports  report.Generator
}

func NewExecutor(store ledger.Store, resolver *dates.Resolver, reports report.Generator) *Executor {
	if reports == nil {
		reports = report.Plain{}
	}
	return &Executor{
		dates:    resolver,
		criteria: criteria.NewResolver(store),
		store:    store,
		reports:  reports,
	}
}

// Execute runs one intent. Failures come back as a Result with StatusError;
// nothing here returns a Go error to the conversational layer.
func (e *Executor) Execute(ctx context.Context, s *Session, in Intent) Result {
	var r Result
	switch v := in.(type) {
	case AddTransaction:
		r = e.add(ctx, v)
	case ListTransactions:
		r = e.list(ctx, s, v)
	case DeleteTransactions:
		r = e.delete(ctx, s, v)
	case EditTransaction:
		r = e.edit(ctx, s, v)
	case GenerateReport:
		r = e.report(ctx, v)
	case QueryTransactions:
		r = e.query(ctx, v)
	case GetBalance:
		r = e.balance(ctx, v)
	default:
		return Result{Status: StatusError, Message: fmt.Sprintf("Ação não suportada: %T", in)}
	}

	slog.DebugContext(ctx, "Intent executed", "action", r.Action, "status", r.Status)
	return r
}

func (e *Executor) add(ctx context.Context, in AddTransaction) Result {
	kind, err := core.ParseKind(in.Type)
	if err != nil {
		return errorResult(ActionAdd, fmt.Sprintf("Tipo inválido: '%s'. Use 'entrada' ou 'saída'.", in.Type))
	}
	amount, err := in.Amount.Decimal()
	if err != nil {
		return errorResult(ActionAdd, fmt.Sprintf("Valor inválido: '%s'.", in.Amount))
	}

	category := core.NormalizeCategory(in.Category)
	if category == "" {
		if kind == core.Income {
			return errorResult(ActionAdd, "Informe a categoria da entrada.")
		}
		category = DefaultExpenseCategory
	}

	var date core.Date
	if strings.TrimSpace(in.Date) == "" {
		date = e.dates.Today()
	} else {
		d, ok := e.dates.ResolveDate(in.Date, false)
		if !ok {
			return errorResult(ActionAdd, fmt.Sprintf("Data inválida: '%s'.", in.Date))
		}
		date = d
	}

	tx := core.Transaction{Kind: kind, Amount: amount, Category: category, Description: in.Description, Date: date}
	id, err := e.store.Insert(ctx, tx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to insert transaction", "error", err)
		return errorResult(ActionAdd, "Erro ao registrar a transação.")
	}
	tx = tx.Normalized()
	tx.ID = id
	view := viewOf(tx)
	return Result{Action: ActionAdd, Status: StatusSuccess, Message: "Registrado.", Transaction: &view}
}

// periodOrAll treats an empty phrase as all time; unrecognized phrases are errors.
func (e *Executor) periodOrAll(text string) (dates.Period, error) {
	p := e.dates.ResolvePeriod(text)
	if p.Status == dates.PeriodUnspecified {
		return dates.Period{Label: dates.LabelAllTime, Status: dates.PeriodAll}, nil
	}
	if err := p.Err(); err != nil {
		return p, err
	}
	return p, nil
}

func (e *Executor) list(ctx context.Context, s *Session, in ListTransactions) Result {
	sel, err := criteria.ParseSelector(in.Type)
	if err != nil {
		return errorResult(ActionList, fmt.Sprintf("Tipo de transação desconhecido: '%s'.", in.Type))
	}
	p, err := e.periodOrAll(in.Period)
	if err != nil {
		return errorResult(ActionList, p.Label)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	txs, err := e.criteria.List(ctx, criteria.ListRequest{Selector: sel, Period: p, Category: in.Category, Limit: limit})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list transactions", "error", err)
		return errorResult(ActionList, "Erro ao listar as transações.")
	}

	items := make([]ListItem, 0, len(txs))
	ids := make([]int64, 0, len(txs))
	for i, tx := range txs {
		items = append(items, ListItem{DisplayIndex: i + 1, TransactionID: tx.ID, Summary: Summary(tx), Transaction: viewOf(tx)})
		ids = append(ids, tx.ID)
	}
	if s != nil {
		s.Remember(ids)
	}

	r := Result{Action: ActionList, Status: StatusSuccess, Period: p.Label, Items: items}
	if len(items) == 0 {
		r.Message = "Nenhuma transação encontrada."
	}
	return r
}

func (e *Executor) delete(ctx context.Context, s *Session, in DeleteTransactions) Result {
	if !in.Confirmed {
		return outcomeResult(ActionDelete, e.criteria.Delete(ctx, criteria.DeleteRequest{}, false))
	}

	narrow, err := criteria.ParseSelector(in.Type)
	if err != nil {
		return errorResult(ActionDelete, fmt.Sprintf("Tipo de transação desconhecido: '%s'.", in.Type))
	}

	var req criteria.DeleteRequest
	switch {
	case in.TransactionID > 0:
		req = criteria.DeleteRequest{Target: criteria.ByID, ID: in.TransactionID}
	case in.DisplayIndex > 0:
		id, ok := resolveIndex(s, in.DisplayIndex)
		if !ok {
			return errorResult(ActionDelete, fmt.Sprintf("Item %d não encontrado na última listagem.", in.DisplayIndex))
		}
		req = criteria.DeleteRequest{Target: criteria.ByID, ID: id}
	case in.DeleteLast != "":
		sel, err := criteria.ParseSelector(in.DeleteLast)
		if err != nil {
			return errorResult(ActionDelete, fmt.Sprintf("Tipo de transação desconhecido: '%s'.", in.DeleteLast))
		}
		req = criteria.DeleteRequest{Target: criteria.Last, Selector: sel}
	case in.DeleteAllOfType != "":
		sel, err := criteria.ParseSelector(in.DeleteAllOfType)
		if err != nil {
			return errorResult(ActionDelete, fmt.Sprintf("Tipo de transação desconhecido: '%s'.", in.DeleteAllOfType))
		}
		req = criteria.DeleteRequest{Target: criteria.AllOfType, Selector: sel}
	case strings.TrimSpace(in.Category) != "":
		req = criteria.DeleteRequest{Target: criteria.Category, Category: in.Category, Selector: narrow}
	case strings.TrimSpace(in.Date) != "":
		d, ok := e.dates.ResolveDate(in.Date, false)
		if !ok {
			return errorResult(ActionDelete, fmt.Sprintf("Data inválida: '%s'.", in.Date))
		}
		req = criteria.DeleteRequest{Target: criteria.OnDate, Date: d, Selector: narrow}
	case strings.TrimSpace(in.Period) != "":
		req = criteria.DeleteRequest{Target: criteria.InPeriod, Period: e.dates.ResolvePeriod(in.Period), Selector: narrow}
	case in.DeleteAll:
		req = criteria.DeleteRequest{Target: criteria.Everything}
	default:
		return errorResult(ActionDelete, "Critério de exclusão não informado.")
	}

	out := e.criteria.Delete(ctx, req, true)
	if out.OK() && s != nil {
		s.Forget()
	}
	return outcomeResult(ActionDelete, out)
}

func (e *Executor) edit(ctx context.Context, s *Session, in EditTransaction) Result {
	if !in.Confirmed {
		return outcomeResult(ActionEdit, e.criteria.Edit(ctx, criteria.EditRequest{}, false))
	}

	req := criteria.EditRequest{Patch: e.patchFrom(in)}
	switch {
	case in.TransactionID > 0:
		req.ID = in.TransactionID
	case in.DisplayIndex > 0:
		id, ok := resolveIndex(s, in.DisplayIndex)
		if !ok {
			return errorResult(ActionEdit, fmt.Sprintf("Item %d não encontrado na última listagem.", in.DisplayIndex))
		}
		req.ID = id
	case in.EditLast != "":
		sel, err := criteria.ParseSelector(in.EditLast)
		if err != nil {
			return errorResult(ActionEdit, fmt.Sprintf("Tipo de transação desconhecido: '%s'.", in.EditLast))
		}
		req.Selector = sel
	default:
		return errorResult(ActionEdit, "Informe qual transação deve ser editada.")
	}

	return outcomeResult(ActionEdit, e.criteria.Edit(ctx, req, true))
}

// patchFrom resolves free-text values. Values that do not resolve are passed on
// in a form Patch.Sanitize rejects, so they show up as skipped fields.
func (e *Executor) patchFrom(in EditTransaction) ledger.Patch {
	p := ledger.Patch{
		Kind:        in.NewType,
		Category:    in.NewCategory,
		Description: in.NewDescription,
	}
	if in.NewAmount != nil {
		amt, err := in.NewAmount.Decimal()
		if err != nil {
			amt = decimal.Zero
		}
		p.Amount = &amt
	}
	if in.NewDate != nil {
		raw := *in.NewDate
		if d, ok := e.dates.ResolveDate(raw, false); ok {
			raw = d.String()
		}
		p.Date = &raw
	}
	return p
}

func (e *Executor) report(ctx context.Context, in GenerateReport) Result {
	p, err := e.periodOrAll(in.Period)
	if err != nil {
		return errorResult(ActionReport, p.Label)
	}
	txs, err := e.store.Query(ctx, ledger.Filter{Start: p.Start, End: p.End})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to query transactions for report", "error", err)
		return errorResult(ActionReport, "Erro ao buscar as transações.")
	}

	text, err := e.reports.Generate(ctx, txs, p.Label)
	if errors.Is(err, report.ErrNoTransactions) {
		return Result{Action: ActionReport, Status: StatusSuccess, Period: p.Label, Message: "Não há transações."}
	}
	if err != nil {
		return errorResult(ActionReport, "Desculpe, ocorreu um erro ao gerar o relatório.")
	}
	return Result{Action: ActionReport, Status: StatusSuccess, Period: p.Label, Report: text}
}

func (e *Executor) query(ctx context.Context, in QueryTransactions) Result {
	sel, err := criteria.ParseSelector(in.Type)
	if err != nil {
		return errorResult(ActionQuery, fmt.Sprintf("Tipo de transação desconhecido: '%s'.", in.Type))
	}
	p, err := e.periodOrAll(in.Period)
	if err != nil {
		return errorResult(ActionQuery, p.Label)
	}

	txs, err := e.criteria.List(ctx, criteria.ListRequest{Selector: sel, Period: p, Category: in.Category})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to query transactions", "error", err)
		return errorResult(ActionQuery, "Erro ao consultar as transações.")
	}

	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	r := Result{
		Action: ActionQuery,
		Status: StatusSuccess,
		Period: p.Label,
		Query:  &QueryView{Total: total, Count: len(txs), Type: in.Type, Category: in.Category},
	}
	if len(txs) == 0 {
		r.Message = "Nenhuma transação encontrada."
	}
	return r
}

func (e *Executor) balance(ctx context.Context, in GetBalance) Result {
	p, err := e.periodOrAll(in.Period)
	if err != nil {
		return errorResult(ActionBalance, p.Label)
	}
	txs, err := e.store.Query(ctx, ledger.Filter{Start: p.Start, End: p.End})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to query transactions for balance", "error", err)
		return errorResult(ActionBalance, "Erro ao calcular o saldo.")
	}
	t := core.Summarize(txs)
	view := BalanceView{
		Income:      t.Income,
		Outflow:     t.Outflow(),
		Expenses:    t.Expenses,
		Investments: t.Investments,
		Balance:     t.Balance(),
	}
	return Result{Action: ActionBalance, Status: StatusSuccess, Period: p.Label, Balance: &view}
}

func resolveIndex(s *Session, idx int) (int64, bool) {
	if s == nil {
		return 0, false
	}
	return s.Resolve(idx)
}
